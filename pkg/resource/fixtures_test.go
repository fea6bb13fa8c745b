package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
)

// Schemas shared by the package tests.
var (
	fanSchema = NewSchema("fan", URI("/v1/fans/:id"))
	fanID     = Declare(fanSchema, "id", String)
	fanName   = Declare(fanSchema, "name", String)
	fanUID    = Declare(fanSchema, "uid", Integer)

	fansSchema   = NewSchema("fans", URI("/v1/fans/"), Items(fanSchema, "fans"))
	bareFans     = NewSchema("bare-fans", URI("/v1/bare-fans/"), Items(fanSchema, ""))
	entriesFans  = NewSchema("entries-fans", URI("/v1/fans/"), Items(fanSchema, "entries"))
	fanCreateTag = DeclareQuery(fanSchema, "tag", "tag")

	songSchema = NewSchema("song", URI("/v1/albums/:album/songs/:id"))
	songAlbum  = Declare(songSchema, "album", String)
	songID     = Declare(songSchema, "id", String)
	songLength = Declare(songSchema, "length", Float)

	addressSchema = NewSchema("address")
	addressCity   = Declare(addressSchema, "city", String)

	personSchema    = NewSchema("person", URI("/v1/people/:id"))
	personID        = Declare(personSchema, "id", String)
	personAddress   = Declare(personSchema, "homeAddress", Nested(addressSchema))
	personAddresses = Declare(personSchema, "addresses", ArrayOf(Nested(addressSchema)))
	personTags      = Declare(personSchema, "tags", ArrayOf(String))
	personSize      = Declare(personSchema, "size", BigInt)
	personBlob      = Declare(personSchema, "blob", Untyped)
	personSeen      = Declare(personSchema, "lastSeen", Time)
	personActive    = Declare(personSchema, "active", Bool)

	tokenSchema = NewSchema("token")
	tokenBearer = Declare(tokenSchema, "bearerToken", String, Key("bearerToken"))
	loginSchema = NewSchema("login", URI("/v1/session/login"), ResultAs(tokenSchema))
	loginUser   = Declare(loginSchema, "username", String)
	loginSecret = Declare(loginSchema, "password", String)
)

// call records one request seen by fakeExecutor.
type call struct {
	Method string
	Path   string
	Body   any
	ETag   string
	Opts   RequestOptions
}

// fakeExecutor serves canned results in order and records every call.
type fakeExecutor struct {
	mu      sync.Mutex
	results []*Result
	err     error
	calls   []call
	token   string
}

func (f *fakeExecutor) BearerToken() (string, error) {
	if f.token == "" {
		return "", &Error{Op: "BearerToken", Err: ErrLoginRequired}
	}
	return f.token, nil
}

func (f *fakeExecutor) next(c call) (*Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.results) == 0 {
		return nil, fmt.Errorf("unexpected %s %s", c.Method, c.Path)
	}
	res := f.results[0]
	f.results = f.results[1:]
	return res, nil
}

func (f *fakeExecutor) Get(_ context.Context, path string, opts RequestOptions) (*Result, error) {
	return f.next(call{Method: http.MethodGet, Path: path, Opts: opts})
}

func (f *fakeExecutor) Post(_ context.Context, path string, body any, opts RequestOptions) (*Result, error) {
	return f.next(call{Method: http.MethodPost, Path: path, Body: body, Opts: opts})
}

func (f *fakeExecutor) Put(_ context.Context, path string, body any, etag string, opts RequestOptions) (*Result, error) {
	return f.next(call{Method: http.MethodPut, Path: path, Body: body, ETag: etag, Opts: opts})
}

func (f *fakeExecutor) Delete(_ context.Context, path string, opts RequestOptions) (*Result, error) {
	return f.next(call{Method: http.MethodDelete, Path: path, Opts: opts})
}

// jsonResult decodes body the way the HTTP executor does.
func jsonResult(status int, etag, body string) *Result {
	res := &Result{Status: status, ETag: etag, RawBody: body}
	if body == "" {
		return res
	}
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		panic(err)
	}
	if res.OK() {
		res.Body = v
	} else {
		res.ErrorBody = v
	}
	return res
}
