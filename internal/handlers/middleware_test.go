package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"user_manager/internal/service"
)

// echoMethod reports the method the wrapped handler observed.
var echoMethod = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(r.Method))
})

func TestMethodOverride(t *testing.T) {
	cases := []struct {
		name   string
		method string
		target string
		header string
		form   url.Values
		want   string
	}{
		{name: "query", method: http.MethodPost, target: "/x?_method=DELETE", want: http.MethodDelete},
		{name: "form field", method: http.MethodPost, target: "/x", form: url.Values{"_method": {"patch"}}, want: http.MethodPatch},
		{name: "header", method: http.MethodPost, target: "/x", header: "put", want: http.MethodPut},
		{name: "header beats form", method: http.MethodPost, target: "/x", header: "PATCH", form: url.Values{"_method": {"DELETE"}}, want: http.MethodPatch},
		{name: "unsupported verb", method: http.MethodPost, target: "/x?_method=CONNECT", want: http.MethodPost},
		{name: "no override", method: http.MethodPost, target: "/x", want: http.MethodPost},
		{name: "only POST is rewritten", method: http.MethodGet, target: "/x?_method=DELETE", want: http.MethodGet},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var body string
			if tc.form != nil {
				body = tc.form.Encode()
			}
			req := httptest.NewRequest(tc.method, tc.target, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tc.header != "" {
				req.Header.Set("X-HTTP-Method-Override", tc.header)
			}

			w := httptest.NewRecorder()
			methodOverride(echoMethod).ServeHTTP(w, req)
			if got := w.Body.String(); got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestMethodOverride_KeepsFormReadable(t *testing.T) {
	var password string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		password = r.PostForm.Get("password")
	})

	req := postForm("/x", url.Values{"_method": {"DELETE"}, "password": {"p1"}})
	methodOverride(next).ServeHTTP(httptest.NewRecorder(), req)

	if req.Method != http.MethodDelete || password != "p1" {
		t.Fatalf("method=%s password=%q", req.Method, password)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(&service.Service{Users: &mockUsers{count: 1}})

	serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/does-not-exist", nil))

	w := serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`user_manager_http_requests_total{method="GET",route="/",status="200"}`,
		`route="unmatched"`,
		"user_manager_http_request_duration_seconds_bucket",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestMethodOverride_KeepsParseError(t *testing.T) {
	var got error
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = formParseError(r)
	})

	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("password=%zz"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	methodOverride(next).ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("parse error not carried to the handler")
	}
}
