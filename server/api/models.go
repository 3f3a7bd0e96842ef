package api

import "github.com/dekarrin/llpred/internal/report"

// note that these are *not* the DAO models; those are distinct and closer to
// the DB format they are in. Rather these are the models that are received from
// and sent to the client.

type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type InfoModel struct {
	Version struct {
		Server string `json:"server"`
		LLPred string `json:"llpred"`
	} `json:"version"`
}

type UserModel struct {
	URI            string `json:"uri"`
	ID             string `json:"id,omitempty"`
	Username       string `json:"username,omitempty"`
	Password       string `json:"password,omitempty"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role,omitempty"`
	Created        string `json:"created,omitempty"`
	Modified       string `json:"modified,omitempty"`
	LastLogoutTime string `json:"last_logout,omitempty"`
	LastLoginTime  string `json:"last_login,omitempty"`
}

type GrammarRequest struct {
	Name  string `json:"name"`
	Rules string `json:"rules"`
}

// GrammarModel is a stored grammar. Rules holds the grammar with left
// recursion removed; Source is the rule text as it was submitted.
type GrammarModel struct {
	URI      string         `json:"uri"`
	ID       string         `json:"id"`
	Owner    string         `json:"owner"`
	Name     string         `json:"name"`
	LL1      bool           `json:"ll1"`
	Created  string         `json:"created"`
	Rules    []string       `json:"rules"`
	Source   string         `json:"source,omitempty"`
	Analysis *report.Report `json:"analysis,omitempty"`
}

type DerivationRequest struct {
	Input string `json:"input"`
}

type DerivationModel struct {
	Grammar string `json:"grammar"`
	report.Derivation
}
