// Package api provides HTTP API endpoints for the LLPred server.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/dekarrin/llpred/grammar"
	"github.com/dekarrin/llpred/server/llps"
	"github.com/dekarrin/llpred/server/result"
	"github.com/dekarrin/llpred/server/serr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// PathPrefix is where the API is mounted. Every URI in a response starts with
// it.
const PathPrefix = "/api/v1"

// API turns HTTP requests into calls on an llps.Service. Assign the result of
// its HTTP* methods as handlers on a router.
type API struct {
	Backend llps.Service

	// UnauthDelay is how long to hold an HTTP-401, HTTP-403, or HTTP-500
	// before it is sent.
	UnauthDelay time.Duration

	// Secret signs the JWTs handed out by the login and token endpoints.
	Secret []byte
}

// EndpointFunc handles a request and gives the result to respond with.
type EndpointFunc func(req *http.Request) result.Result

// grammarErrorKinds gives the kind reported to clients for each way rules text
// can fail to be analyzed. Anything else is "invalid_grammar".
var grammarErrorKinds = []struct {
	err  error
	kind string
}{
	{grammar.ErrEmptyGrammar, "empty_grammar"},
	{grammar.ErrEmptyHead, "empty_head"},
	{grammar.ErrEmptyAlternative, "empty_alternative"},
	{grammar.ErrMisplacedEpsilon, "misplaced_epsilon"},
	{grammar.ErrReservedSymbol, "reserved_symbol"},
	{grammar.ErrNameCollision, "name_collision"},
}

// grammarErrorResult gives the HTTP-400 for rules text that could not be
// analyzed, with the line it failed on if there is one.
func grammarErrorResult(err error) result.Result {
	kind := "invalid_grammar"
	for _, k := range grammarErrorKinds {
		if errors.Is(err, k.err) {
			kind = k.kind
			break
		}
	}
	line, _ := grammar.ErrorLine(err)

	return result.GrammarError(err.Error(), line, kind, "grammar (%s): %s", kind, err.Error())
}

// requireIDParam gives the "id" URI param. Routes only match when it is a
// UUID, so it panics if it is not one.
func requireIDParam(r *http.Request) uuid.UUID {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		panic(fmt.Sprintf("id param: %s", err.Error()))
	}
	return id
}

// parseJSON decodes the JSON body of req into v, which must be a pointer. Any
// problem with the body gives an error that matches serr.ErrBodyUnmarshal. The
// body can still be read again afterwards.
func parseJSON(req *http.Request, v interface{}) error {
	mediaType, _, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return serr.New("request content-type is not application/json", serr.ErrBodyUnmarshal)
	}

	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	req.Body.Close()
	req.Body = io.NopCloser(bytes.NewBuffer(bodyData))

	if err := json.Unmarshal(bodyData, v); err != nil {
		return serr.New("malformed JSON in request", err, serr.ErrBodyUnmarshal)
	}
	return nil
}

func httpEndpoint(unauthDelay time.Duration, ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req)
		r := ep(req)

		if r.Status == 0 {
			logHttpResponse("ERROR", req, http.StatusInternalServerError, "endpoint result was never populated")
			http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
			return
		}

		// marshal now so a failure can still be answered with a normal 500
		if err := r.PrepareMarshaledResponse(); err != nil {
			r = result.InternalServerError("could not marshal JSON response: %s", err.Error())
		}

		level := "INFO"
		if r.IsErr {
			level = "ERROR"
		}
		logHttpResponse(level, req, r.Status, r.InternalMsg)

		switch r.Status {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusInternalServerError:
			time.Sleep(unauthDelay)
		}

		r.WriteResponse(w, req)
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) {
	if panicErr := recover(); panicErr != nil {
		r := result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			"panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack()),
		)
		logHttpResponse("ERROR", req, r.Status, r.InternalMsg)
		r.WriteResponse(w, req)
	}
}

func logHttpResponse(level string, req *http.Request, respStatus int, msg string) {
	remoteIP, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		remoteIP = req.RemoteAddr
	}

	log.Printf("%-5.5s %s %s %s: HTTP-%d %s", level, remoteIP, req.Method, req.URL.Path, respStatus, msg)
}
