/*
Package screen defines the contract dialog screens are written against
and the lifecycle machinery that drives one screen through one turn:
action dispatch, init/validate/handle/render hooks, validation-error
recovery, and pagination of the rendered payload into protocol-bounded
pages.

A screen is any type implementing a subset of the capability interfaces
(Initializer, Validator, Handler, Renderer, ActionProvider,
NavActionProvider, PageActionProvider). The Runner discovers what a
screen can do and invokes only that.
*/
package screen
