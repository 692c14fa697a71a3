// Package httputil provides the JSON plumbing shared by the HTTP handlers.
//
// # Responses
//
// [WriteJSON] encodes a value with a status code. [WriteError] renders any
// error as
//
//	{"code": "TOKEN_NOT_FOUND", "message": "token not found"}
//
// using the error's code from pkg/errors to pick the HTTP status. Errors
// without a code are reported as INTERNAL_ERROR and their text is not
// exposed.
//
// # Requests
//
// [DecodeJSON] reads a bounded request body into a struct and rejects
// unknown fields and trailing data:
//
//	var body struct{ X, Y float64 }
//	if err := httputil.DecodeJSON(r, &body); err != nil {
//	    httputil.WriteError(w, err)
//	    return
//	}
package httputil
