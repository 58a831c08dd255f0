// Package method implements the request-dispatch protocol: the outer method
// envelope, token authentication, and routing of validated arguments to the
// scoring handlers.
package method

import (
	"time"

	"github.com/ildarkit/hw3/internal/schema"
)

// AdminLogin is the privileged principal name.
const AdminLogin = "admin"

// Method names understood by the dispatcher.
const (
	MethodOnlineScore      = "online_score"
	MethodClientsInterests = "clients_interests"
)

var methodSchema = schema.Schema{
	{Name: "account", Field: schema.Char{Nullable: true}},
	{Name: "login", Field: schema.Char{Required: true, Nullable: true}},
	{Name: "token", Field: schema.Char{Required: true, Nullable: true}},
	{Name: "arguments", Field: schema.Arguments{Required: true, Nullable: true}},
	{Name: "method", Field: schema.Char{Required: true}},
}

var onlineScoreSchema = schema.Schema{
	{Name: "first_name", Field: schema.Char{Nullable: true}},
	{Name: "last_name", Field: schema.Char{Nullable: true}},
	{Name: "email", Field: schema.Email{Nullable: true}},
	{Name: "phone", Field: schema.Phone{Nullable: true}},
	{Name: "birthday", Field: schema.BirthDay{Nullable: true}},
	{Name: "gender", Field: schema.Gender{Nullable: true}},
}

var clientsInterestsSchema = schema.Schema{
	{Name: "client_ids", Field: schema.ClientIDs{Required: true}},
	{Name: "date", Field: schema.Date{Nullable: true}},
}

// MethodRequest is the bound outer envelope carrying identity and routing.
type MethodRequest struct {
	Account   string
	Login     string
	Token     string
	Method    string
	Arguments map[string]any
}

// IsAdmin reports whether the request authenticates as the admin principal.
func (r MethodRequest) IsAdmin() bool {
	return r.Login == AdminLogin
}

func methodRequestFromRecord(rec schema.Record) MethodRequest {
	args, _ := rec.Value("arguments").(map[string]any)
	return MethodRequest{
		Account:   rec.String("account"),
		Login:     rec.String("login"),
		Token:     rec.String("token"),
		Method:    rec.String("method"),
		Arguments: args,
	}
}

// OnlineScoreRequest is the bound argument set of the scoring method.
// Optional strings default to "", the birthday to the zero time; Gender is a
// pointer because 0 is a legal supplied value.
type OnlineScoreRequest struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Birthday  time.Time
	Gender    *int
}

// HasFullPair reports whether at least one of the pairs (phone, email),
// (first name, last name), (birthday, gender) is fully populated.
func (r OnlineScoreRequest) HasFullPair() bool {
	if r.Phone != "" && r.Email != "" {
		return true
	}
	if r.FirstName != "" && r.LastName != "" {
		return true
	}
	if !r.Birthday.IsZero() && r.Gender != nil {
		return true
	}
	return false
}

func onlineScoreFromRecord(rec schema.Record) OnlineScoreRequest {
	req := OnlineScoreRequest{
		FirstName: rec.String("first_name"),
		LastName:  rec.String("last_name"),
		Email:     rec.String("email"),
		Phone:     rec.String("phone"),
	}
	if bd, ok := rec.Value("birthday").(time.Time); ok {
		req.Birthday = bd
	}
	if g, ok := rec.Value("gender").(int); ok {
		req.Gender = &g
	}
	return req
}

// ClientsInterestsRequest is the bound argument set of the interests method.
type ClientsInterestsRequest struct {
	ClientIDs []int64
	Date      time.Time
}

func clientsInterestsFromRecord(rec schema.Record) ClientsInterestsRequest {
	req := ClientsInterestsRequest{}
	if ids, ok := rec.Value("client_ids").([]int64); ok {
		req.ClientIDs = ids
	}
	if d, ok := rec.Value("date").(time.Time); ok {
		req.Date = d
	}
	return req
}
