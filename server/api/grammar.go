package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/llpred/internal/report"
	"github.com/dekarrin/llpred/server/dao"
	"github.com/dekarrin/llpred/server/middle"
	"github.com/dekarrin/llpred/server/result"
	"github.com/dekarrin/llpred/server/serr"
)

// HTTPCreateGrammar returns a HandlerFunc that analyzes a grammar, stores it,
// and responds with the stored grammar and its full analysis. A grammar that
// is not LL(1) is still stored.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the logged-in user of the client making the request.
func (api API) HTTPCreateGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateGrammar)
}

func (api API) epCreateGrammar(req *http.Request) result.Result {
	user := middle.RequestUser(req)

	var createReq GrammarRequest
	err := parseJSON(req, &createReq)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if strings.TrimSpace(createReq.Rules) == "" {
		return result.BadRequest("rules: property is empty or missing from request", "empty rules")
	}

	created, analysis, err := api.Backend.CreateGrammar(req.Context(), user.ID, createReq.Name, createReq.Rules)
	if err != nil {
		if errors.Is(err, serr.ErrGrammar) {
			return grammarErrorResult(err)
		}
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), "grammar: %s", err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp := grammarModel(created)
	r := report.New(created.Name, analysis)
	resp.Source = created.Source
	resp.Analysis = &r

	return result.Created(resp, "user '%s' created grammar %s (LL(1): %t)", user.Username, resp.ID, resp.LL1)
}

// HTTPGetAllGrammars returns a HandlerFunc that lists stored grammars. Users
// see the grammars they created; an admin user sees every grammar.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the logged-in user of the client making the request.
func (api API) HTTPGetAllGrammars() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllGrammars)
}

func (api API) epGetAllGrammars(req *http.Request) result.Result {
	user := middle.RequestUser(req)

	grammars, err := api.Backend.GetAllGrammars(req.Context(), user)
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]GrammarModel, len(grammars))
	for i := range grammars {
		resp[i] = grammarModel(grammars[i])
	}

	return result.OK(resp, "user '%s' got %d grammar(s)", user.Username, len(resp))
}

// HTTPGetGrammar returns a HandlerFunc that gets a stored grammar along with
// its full analysis. Only the user who created it or an admin may get it.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the grammar and the logged-in user of the client making the
// request.
func (api API) HTTPGetGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetGrammar)
}

func (api API) epGetGrammar(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := middle.RequestUser(req)

	g, analysis, err := api.Backend.GetGrammar(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get grammar: " + err.Error())
	}

	if g.Owner != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) get grammar %s: forbidden", user.Username, user.Role, id.String())
	}

	resp := grammarModel(g)
	r := report.New(g.Name, analysis)
	resp.Source = g.Source
	resp.Analysis = &r

	return result.OK(resp, "user '%s' got grammar %s", user.Username, resp.ID)
}

// HTTPDeleteGrammar returns a HandlerFunc that deletes a stored grammar. Only
// the user who created it or an admin may delete it.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the grammar and the logged-in user of the client making the
// request.
func (api API) HTTPDeleteGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteGrammar)
}

func (api API) epDeleteGrammar(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := middle.RequestUser(req)

	g, _, err := api.Backend.GetGrammar(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get grammar: " + err.Error())
	}

	if g.Owner != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) delete grammar %s: forbidden", user.Username, user.Role, id.String())
	}

	_, err = api.Backend.DeleteGrammar(req.Context(), id.String())
	if err != nil && !errors.Is(err, serr.ErrNotFound) {
		return result.InternalServerError("could not delete grammar: " + err.Error())
	}

	return result.NoContent("user '%s' deleted grammar %s", user.Username, id.String())
}

// HTTPCreateDerivation returns a HandlerFunc that derives an input with a
// stored grammar and responds with the trace, the parse tree, and the kind of
// error that stopped the derivation if there was one. A rejected input is not
// an HTTP error.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the grammar and the logged-in user of the client making the
// request.
func (api API) HTTPCreateDerivation() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateDerivation)
}

func (api API) epCreateDerivation(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := middle.RequestUser(req)

	var deriveReq DerivationRequest
	err := parseJSON(req, &deriveReq)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	g, analysis, err := api.Backend.GetGrammar(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get grammar: " + err.Error())
	}

	if g.Owner != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) derive with grammar %s: forbidden", user.Username, user.Role, id.String())
	}

	d, err := api.Backend.Derive(analysis, deriveReq.Input)
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest("input: "+err.Error(), "input: %s", err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp := DerivationModel{
		Grammar:    PathPrefix + "/grammars/" + g.ID.String(),
		Derivation: d,
	}

	return result.OK(resp, "user '%s' derived %d token(s) with grammar %s: %s", user.Username, len(d.Input), g.ID.String(), d.Verdict())
}

func grammarModel(g dao.Grammar) GrammarModel {
	return GrammarModel{
		URI:     PathPrefix + "/grammars/" + g.ID.String(),
		ID:      g.ID.String(),
		Owner:   PathPrefix + "/users/" + g.Owner.String(),
		Name:    g.Name,
		LL1:     g.LL1,
		Created: g.Created.Format(time.RFC3339),
		Rules:   strings.Split(g.Normalized.String(), "\n"),
	}
}
