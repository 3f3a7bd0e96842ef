package llps

import (
	"context"
	"errors"
	"strings"

	"github.com/dekarrin/llpred/grammar"
	"github.com/dekarrin/llpred/internal/report"
	"github.com/dekarrin/llpred/parse"
	"github.com/dekarrin/llpred/server/dao"
	"github.com/dekarrin/llpred/server/serr"
	"github.com/google/uuid"
)

// DefaultGrammarName is the name given to a grammar created without one.
const DefaultGrammarName = "untitled"

// CreateGrammar analyzes the rule text and, if it can be analyzed, stores it
// as a grammar owned by the given user. A grammar that is not LL(1) is stored;
// its conflicts are part of the returned analysis.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If the rules could not be
// analyzed, it will match serr.ErrGrammar and serr.ErrBadArgument. If the
// error occured due to an unexpected problem with the DB, it will match
// serr.ErrDB.
func (svc Service) CreateGrammar(ctx context.Context, owner uuid.UUID, name, rules string) (dao.Grammar, grammar.Analysis, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultGrammarName
	}

	analysis, err := grammar.Analyze(rules)
	if err != nil {
		return dao.Grammar{}, analysis, serr.New("", err, serr.ErrGrammar, serr.ErrBadArgument)
	}

	newGrammar := dao.Grammar{
		Owner:      owner,
		Name:       name,
		Source:     rules,
		Normalized: analysis.Grammar,
		LL1:        analysis.IsLL1(),
	}

	created, err := svc.DB.Grammars().Create(ctx, newGrammar)
	if err != nil {
		return dao.Grammar{}, analysis, serr.WrapDB("could not create grammar", err)
	}

	return created, analysis, nil
}

// GetGrammar returns the stored grammar with the given ID along with a fresh
// analysis of its rules.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no grammar with that ID
// exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if there
// is an issue with one of the arguments, it will match serr.ErrBadArgument.
func (svc Service) GetGrammar(ctx context.Context, id string) (dao.Grammar, grammar.Analysis, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Grammar{}, grammar.Analysis{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	g, err := svc.DB.Grammars().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Grammar{}, grammar.Analysis{}, serr.ErrNotFound
		}
		return dao.Grammar{}, grammar.Analysis{}, serr.WrapDB("could not get grammar", err)
	}

	analysis, err := grammar.Analyze(g.Source)
	if err != nil {
		// it was analyzed before it was stored, so this is not the client's
		// fault
		return g, analysis, serr.New("stored grammar could not be analyzed", err, serr.ErrGrammar)
	}

	return g, analysis, nil
}

// GetAllGrammars returns the grammars the given user may see: their own, or
// every stored grammar if they are an admin.
func (svc Service) GetAllGrammars(ctx context.Context, user dao.User) ([]dao.Grammar, error) {
	var all []dao.Grammar
	var err error

	if user.Role == dao.Admin {
		all, err = svc.DB.Grammars().GetAll(ctx)
	} else {
		all, err = svc.DB.Grammars().GetAllByOwner(ctx, user.ID)
	}
	if err != nil {
		return nil, serr.WrapDB("", err)
	}

	return all, nil
}

// DeleteGrammar deletes the grammar with the given ID and returns it as it was
// just before deletion.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no grammar with that ID
// exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if there
// is an issue with one of the arguments, it will match serr.ErrBadArgument.
func (svc Service) DeleteGrammar(ctx context.Context, id string) (dao.Grammar, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Grammar{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	g, err := svc.DB.Grammars().Delete(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Grammar{}, serr.ErrNotFound
		}
		return dao.Grammar{}, serr.WrapDB("could not delete grammar", err)
	}

	return g, nil
}

// Derive runs the LL(1) derivation of the whitespace-separated tokens in input
// using the analysis of a stored grammar. An input the grammar rejects is not
// an error; the returned Derivation describes why it was rejected.
//
// The returned error, if non-nil, will match serr.ErrBadArgument if input
// contains the end marker.
func (svc Service) Derive(a grammar.Analysis, input string) (report.Derivation, error) {
	tokens, err := parse.Tokenize(input)
	if err != nil {
		return report.Derivation{}, serr.New("input is not valid", err, serr.ErrBadArgument)
	}

	parser := parse.GenerateLL1Parser(a)
	res, err := parser.Derive(tokens)
	return report.NewDerivation("", tokens, res, err), nil
}
