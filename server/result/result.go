// Package result contains results that are used to write out API responses.
package result

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the body of every JSON error response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`

	// Line and Kind are only set when rules text could not be analyzed. Line
	// is 1-based and is left out if the problem is not with a single line.
	Line int    `json:"line,omitempty"`
	Kind string `json:"kind,omitempty"`
}

// Result is a response an endpoint has decided on. InternalMsg goes to the log
// and is never sent to the client.
type Result struct {
	Status      int
	IsErr       bool
	IsJSON      bool
	InternalMsg string

	resp  interface{}
	redir string
	hdrs  [][2]string

	// set by PrepareMarshaledResponse
	respJSONBytes []byte
}

// internalMsg formats the optional internal message args given to the
// constructors. The first arg is a format string for the rest; if it is the
// only arg it is used as-is.
func internalMsg(def string, args []interface{}) string {
	if len(args) < 1 {
		return def
	}
	format, ok := args[0].(string)
	if !ok {
		return fmt.Sprint(args...)
	}
	if len(args) == 1 {
		return format
	}
	return fmt.Sprintf(format, args[1:]...)
}

func response(status int, respObj interface{}, msg string) Result {
	return Result{
		IsJSON:      true,
		Status:      status,
		InternalMsg: msg,
		resp:        respObj,
	}
}

func errResponse(body ErrorResponse, msg string) Result {
	return Result{
		IsJSON:      true,
		IsErr:       true,
		Status:      body.Status,
		InternalMsg: msg,
		resp:        body,
	}
}

// OK is an HTTP-200 with respObj as the body.
func OK(respObj interface{}, internal ...interface{}) Result {
	return response(http.StatusOK, respObj, internalMsg("OK", internal))
}

// Created is an HTTP-201 with respObj as the body.
func Created(respObj interface{}, internal ...interface{}) Result {
	return response(http.StatusCreated, respObj, internalMsg("created", internal))
}

// NoContent is an HTTP-204 with no body.
func NoContent(internal ...interface{}) Result {
	return response(http.StatusNoContent, nil, internalMsg("no content", internal))
}

// BadRequest is an HTTP-400 that shows userMsg to the client.
func BadRequest(userMsg string, internal ...interface{}) Result {
	body := ErrorResponse{Error: userMsg, Status: http.StatusBadRequest}
	return errResponse(body, internalMsg("bad request", internal))
}

// GrammarError is an HTTP-400 for rules text that could not be analyzed. kind
// names the problem and line is where it is; give line as 0 if the problem is
// with the text as a whole.
func GrammarError(userMsg string, line int, kind string, internal ...interface{}) Result {
	body := ErrorResponse{Error: userMsg, Status: http.StatusBadRequest, Line: line, Kind: kind}
	return errResponse(body, internalMsg("grammar not analyzed", internal))
}

// Unauthorized is an HTTP-401 with the WWW-Authenticate header set. If userMsg
// is empty, a generic one is used.
func Unauthorized(userMsg string, internal ...interface{}) Result {
	if userMsg == "" {
		userMsg = "You are not authorized to do that"
	}
	body := ErrorResponse{Error: userMsg, Status: http.StatusUnauthorized}
	return errResponse(body, internalMsg("unauthorized", internal)).
		WithHeader("WWW-Authenticate", `Bearer realm="LLPred server", charset="utf-8"`)
}

// Forbidden is an HTTP-403.
func Forbidden(internal ...interface{}) Result {
	body := ErrorResponse{Error: "You don't have permission to do that", Status: http.StatusForbidden}
	return errResponse(body, internalMsg("forbidden", internal))
}

// NotFound is an HTTP-404.
func NotFound(internal ...interface{}) Result {
	body := ErrorResponse{Error: "The requested resource was not found", Status: http.StatusNotFound}
	return errResponse(body, internalMsg("not found", internal))
}

// MethodNotAllowed is an HTTP-405 naming the method and path of req.
func MethodNotAllowed(req *http.Request, internal ...interface{}) Result {
	userMsg := fmt.Sprintf("Method %s is not allowed for %s", req.Method, req.URL.Path)
	body := ErrorResponse{Error: userMsg, Status: http.StatusMethodNotAllowed}
	return errResponse(body, internalMsg("method not allowed", internal))
}

// Conflict is an HTTP-409 that shows userMsg to the client.
func Conflict(userMsg string, internal ...interface{}) Result {
	body := ErrorResponse{Error: userMsg, Status: http.StatusConflict}
	return errResponse(body, internalMsg("conflict", internal))
}

// InternalServerError is an HTTP-500. Details only go in the internal message.
func InternalServerError(internal ...interface{}) Result {
	body := ErrorResponse{Error: "An internal server error occurred", Status: http.StatusInternalServerError}
	return errResponse(body, internalMsg("internal server error", internal))
}

// TextErr is an error response written as plain text instead of JSON, for
// when JSON encoding itself cannot be trusted.
func TextErr(status int, userMsg string, internal ...interface{}) Result {
	return Result{
		IsErr:       true,
		Status:      status,
		InternalMsg: internalMsg(http.StatusText(status), internal),
		resp:        userMsg,
	}
}

// Redirection is an HTTP-308 to uri.
func Redirection(uri string) Result {
	return Result{
		Status:      http.StatusPermanentRedirect,
		InternalMsg: "redirect -> " + uri,
		redir:       uri,
	}
}

// WithHeader returns a copy of r that also sets the given header.
func (r Result) WithHeader(name, val string) Result {
	hdrs := make([][2]string, len(r.hdrs), len(r.hdrs)+1)
	copy(hdrs, r.hdrs)
	r.hdrs = append(hdrs, [2]string{name, val})
	r.respJSONBytes = nil
	return r
}

// PrepareMarshaledResponse marshals the body of r ahead of WriteResponse so
// that a failure can be handled instead of panicking. It does nothing if
// there is no JSON body or if it was already called successfully.
func (r *Result) PrepareMarshaledResponse() error {
	if r.respJSONBytes != nil || !r.hasJSONBody() {
		return nil
	}

	var err error
	r.respJSONBytes, err = json.Marshal(r.resp)
	return err
}

func (r Result) hasJSONBody() bool {
	return r.IsJSON && r.Status != http.StatusNoContent && r.redir == ""
}

// WriteResponse writes r to w as the response to req. It panics if r was never
// populated or its body cannot be marshaled.
func (r Result) WriteResponse(w http.ResponseWriter, req *http.Request) {
	if r.Status == 0 {
		panic("result not populated")
	}
	if err := r.PrepareMarshaledResponse(); err != nil {
		panic(fmt.Sprintf("could not marshal response: %s", err.Error()))
	}

	for i := range r.hdrs {
		w.Header().Set(r.hdrs[i][0], r.hdrs[i][1])
	}

	if r.redir != "" {
		http.Redirect(w, req, r.redir, r.Status)
		return
	}

	var respBytes []byte
	if r.IsJSON {
		w.Header().Set("Content-Type", "application/json")
		respBytes = r.respJSONBytes
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		respBytes = []byte(fmt.Sprintf("%v", r.resp))
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")

	w.WriteHeader(r.Status)
	if r.Status != http.StatusNoContent {
		w.Write(respBytes)
	}
}
