/*
Package session implements the per-subscriber conversation state of the
USSD engine: the Session record with its staleness and id-mismatch
recovery rules, the content-addressed navigation History stack, and the
Manager that brackets every turn with exactly one load and one save
against the Cache port.
*/
package session
