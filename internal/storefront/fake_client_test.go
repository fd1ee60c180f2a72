package storefront

import (
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
)

const (
	userPath     = "/api/user"
	cartPath     = "/api/cart"
	productsPath = "/api/products"

	twoProducts = `[{"id":1,"name":"Test Product A","price":10.0,"rating":4.5},{"id":2,"name":"Test Product B","price":20.0,"rating":3.8}]`
	maxie       = `{"name":"Maxie"}`
	threeItems  = `{"items":3,"total":30}`
)

var testEndpoints = Endpoints{User: userPath, Cart: cartPath, Products: productsPath}

type fakeResponse struct {
	body string
	err  error
}

// fakeClient answers from canned responses. A path with a gate blocks until
// the gate is released or the request context ends.
type fakeClient struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	gates     map[string]chan struct{}
	calls     map[string]int
}

func newFakeClient(responses map[string]fakeResponse) *fakeClient {
	return &fakeClient{
		responses: responses,
		gates:     make(map[string]chan struct{}),
		calls:     make(map[string]int),
	}
}

func (f *fakeClient) gate(paths ...string) *fakeClient {
	for _, p := range paths {
		f.gates[p] = make(chan struct{})
	}
	return f
}

func (f *fakeClient) release(path string) {
	close(f.gates[path])
}

func (f *fakeClient) GetJSON(ctx context.Context, path string, out any) error {
	f.mu.Lock()
	f.calls[path]++
	gate := f.gates[path]
	resp, ok := f.responses[path]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if !ok {
		return fmt.Errorf("GET %s: no route", path)
	}
	if resp.err != nil {
		return resp.err
	}
	return json.Unmarshal([]byte(resp.body), out)
}

func (f *fakeClient) callCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func happyResponses() map[string]fakeResponse {
	return map[string]fakeResponse{
		userPath:     {body: maxie},
		cartPath:     {body: threeItems},
		productsPath: {body: twoProducts},
	}
}
