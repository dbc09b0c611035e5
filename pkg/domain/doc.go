/*
Package domain holds the core value types of the USSD dialog engine.

These types carry no I/O and no dependency on the rest of the engine:
the turn envelope handed in by a transport, the accumulated dial-string
vector and its delta algebra, screen state, screen responses, and the
engine's error taxonomy.
*/
package domain
