package echoapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/trezcool/coursebuilder/apps/api/echo"
	"github.com/trezcool/coursebuilder/core"
	"github.com/trezcool/coursebuilder/core/course"
	"github.com/trezcool/coursebuilder/core/editor"
	testutil "github.com/trezcool/coursebuilder/tests"
)

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func testConfig() *core.Config {
	return &core.Config{
		Env:      "TEST",
		TestMode: true,
		AppName:  "Course Builder",
		Server:   core.ServerConfig{DisableReqLogs: true},
		Upload: core.UploadConfig{
			MaxVideoSize:    1 << 20,
			MaxAudioSize:    1 << 20,
			MaxDocumentSize: 1 << 20,
			MaxImageSize:    1 << 10,
		},
	}
}

func setup(t *testing.T, courses ...course.Course) (*Server, *testutil.Backend) {
	t.Helper()
	conf := testConfig()
	backend := testutil.NewBackend(courses...)
	mgr := editor.NewManager(editor.Options{
		Backend:  backend,
		Notifier: new(testutil.Notifier),
		Logger:   testutil.Logger{},
		Limits:   course.NewUploadLimits(conf.Upload),
	}, 0)

	srv := NewServer(ServerDeps{
		Conf:     conf,
		Logger:   testutil.Logger{},
		Sessions: mgr,
	})
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv, backend
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	return req, httptest.NewRecorder()
}

func newUploadRequest(t *testing.T, path, filename string, content []byte) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.Copy(part, bytes.NewReader(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req, httptest.NewRecorder()
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// do sends a JSON request, checks the status code and decodes the response into out (if not nil).
func do(t *testing.T, srv *Server, method, path string, body interface{}, wantCode int, out interface{}) {
	t.Helper()
	var data []byte
	switch b := body.(type) {
	case nil:
	case []byte:
		data = b
	default:
		data = marshallObj(t, body)
	}
	req, rec := newRequest(method, path, data)
	srv.ServeHTTP(rec, req)
	require.Equal(t, wantCode, rec.Code, rec.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
}

func openSession(t *testing.T, srv *Server, courseID course.ID) editor.View {
	t.Helper()
	var view editor.View
	do(t, srv, http.MethodPost, "/v1/sessions", OpenSessionRequest{CourseID: courseID}, http.StatusCreated, &view)
	return view
}

func moduleIDs(view editor.View) []course.ID {
	ids := make([]course.ID, 0, len(view.Modules))
	for _, m := range view.Modules {
		ids = append(ids, m.ID)
	}
	return ids
}

func lessonIDs(mod course.Module) []course.ID {
	ids := make([]course.ID, 0, len(mod.Lessons))
	for _, l := range mod.Lessons {
		ids = append(ids, l.ID)
	}
	return ids
}
