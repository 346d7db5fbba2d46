package session

// Package session contains domain-level types for the authenticated session
// and its serialized credential record. It is pure and free of adapter concerns.

import "encoding/json"

// Role represents the application's authorization role.
// Keep string form for easy persistence. Valid values are defined below.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDoctor Role = "doctor"
)

// ResolveRole is the single canonical role resolver. Every call site that
// derives a role from stored state must go through it. Anything other than
// the two recognized literals (empty string, malformed data, unknown roles
// like "superuser") resolves to false: default-deny.
func ResolveRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleDoctor:
		return RoleDoctor, true
	default:
		return "", false
	}
}

// Persistence identifies which storage scope holds the credential record.
type Persistence string

const (
	// PersistenceDurable survives gateway restarts ("remember me").
	PersistenceDurable Persistence = "durable"
	// PersistenceEphemeral lives only for the gateway process lifetime.
	PersistenceEphemeral Persistence = "ephemeral"
)

// Profile is the upstream user object returned by the login endpoints.
// Unknown upstream fields are dropped on decode; the fields below are the
// ones the application reads.
type Profile struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
}

// Field names of the serialized credential record. The layout mirrors the
// storage contract: five named string values per scope. AuthToken is a
// duplicate of Token kept for a legacy compatibility check; it also serves
// as the discriminator for which scope is active on reads.
const (
	FieldToken     = "token"
	FieldAuthToken = "authToken"
	FieldRole      = "role"
	FieldName      = "name"
	FieldUser      = "user"
)

// Record is the serialized form of a Session held in exactly one storage
// scope at a time. All five fields are written and cleared together; partial
// state must never be observably persisted.
type Record struct {
	Token       string
	Role        string
	DisplayName string
	Profile     Profile
}

// Fields flattens the record into the five named string values stored per scope.
func (r Record) Fields() (map[string]string, error) {
	user, err := json.Marshal(r.Profile)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		FieldToken:     r.Token,
		FieldAuthToken: r.Token,
		FieldRole:      r.Role,
		FieldName:      r.DisplayName,
		FieldUser:      string(user),
	}, nil
}

// RecordFromFields rebuilds a record from stored field values. A missing or
// undecodable user field yields a zero profile rather than an error; the
// token and role fields are what the session lifecycle depends on.
func RecordFromFields(fields map[string]string) Record {
	rec := Record{
		Token:       fields[FieldToken],
		Role:        fields[FieldRole],
		DisplayName: fields[FieldName],
	}
	if rec.Token == "" {
		// Records written by older builds may carry the bearer only under
		// the authToken duplicate.
		rec.Token = fields[FieldAuthToken]
	}
	if raw := fields[FieldUser]; raw != "" {
		// Best effort: ignore decode errors, keep zero profile.
		_ = json.Unmarshal([]byte(raw), &rec.Profile)
	}
	return rec
}

// Session is the authenticated identity state derived from the active
// credential record. Exactly one Session may be active per gateway session ID.
type Session struct {
	Token       string      `json:"-"`
	Role        Role        `json:"role"`
	DisplayName string      `json:"display_name"`
	Profile     Profile     `json:"user"`
	Persistence Persistence `json:"persistence"`
}
