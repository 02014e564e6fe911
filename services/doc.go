/*
Package services exposes the verification servers over HTTP.

HTTPServer wraps a protocol.ServerPool and registers the following routes on
a chi router:

  - GET  /keys                  signing and share encryption keys of the server
  - GET  /challenge             a challenge point; with a shared challenge
    secret configured, ?round=N derives it deterministically so both servers
    return the same point
  - POST /verification-message  decrypts a share and returns the signed
    verification message for it
  - POST /aggregate             checks both signed verification messages and
    accumulates the share if the proof holds
  - POST /finalize              freezes the accumulator
  - GET  /status                lifecycle state and outcome counters
  - GET  /total-shares          the accumulator, only after /finalize

A submission flows through the API as follows. The caller fetches a challenge,
asks each server for its verification message, then sends each server its own
message together with the one signed by the peer. The servers never talk to
each other directly.

Errors are reported with http.Error: malformed input and undecryptable shares
yield 400, bad signatures 403, calls in the wrong lifecycle state 409.
*/
package services
