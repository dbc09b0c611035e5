/*
Package ports defines the driven ports (interfaces) of the USSD engine.

The engine talks to the outside world through a single Cache port for
session and navigation-history persistence. Adapters live under
pkg/adapters; RunCacheContract verifies that an implementation honors
the interface contract.
*/
package ports
