package api_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/archer/internal/adapters/http/api"
	service "github.com/okian/archer/internal/app"
	"github.com/okian/archer/internal/domain/model"
	"github.com/okian/archer/internal/domain/signature"
	"github.com/okian/archer/internal/report"
	. "github.com/smartystreets/goconvey/convey"
)

func newMux() (*http.ServeMux, *service.Service) {
	clock := func() time.Time { return time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC) }
	svc := service.New(service.WithClock(clock))
	So(svc.Start(context.Background()), ShouldBeNil)
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	return mux, svc
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	So(json.Unmarshal(w.Body.Bytes(), &v), ShouldBeNil)
	return v
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux, _ := newMux()

		Convey("Then health serves Prometheus metrics", func() {
			w := do(mux, "GET", "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "archer_report_roster_coaches")
		})

		Convey("And stats are JSON", func() {
			w := do(mux, "GET", "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			stats := decode[map[string]any](w)
			So(stats["started"], ShouldEqual, true)
			So(stats["coaches"], ShouldEqual, float64(35))
		})

		Convey("And unknown routes are 404 and wrong methods 405", func() {
			So(do(mux, "GET", "/unknown", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, "DELETE", "/roster", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})

		Convey("And a nil mux panics", func() {
			So(func() { api.NewServer(nil, nil).Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}

func TestRosterRoutes(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux, _ := newMux()

		Convey("When listing the roster", func() {
			coaches := decode[[]model.Coach](do(mux, "GET", "/roster", ""))

			Convey("Then every coach is returned in order", func() {
				So(len(coaches), ShouldEqual, 35)
				So(coaches[0].Name, ShouldEqual, "Abhijeet Sharma")
			})
		})

		Convey("When adding a coach", func() {
			w := do(mux, "POST", "/roster/coaches", `{"name":"  Mihir  "}`)

			Convey("Then it is created trimmed", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				So(decode[model.Coach](w), ShouldResemble, model.Coach{Name: "Mihir", Batches: []model.Batch{}})
			})

			Convey("And a case variant conflicts", func() {
				w := do(mux, "POST", "/roster/coaches", `{"name":"mihir"}`)
				So(w.Code, ShouldEqual, http.StatusConflict)
				So(decode[errorBody](w).Code, ShouldEqual, "duplicate_coach")
			})
		})

		Convey("When adding a blank coach or sending bad JSON", func() {
			So(do(mux, "POST", "/roster/coaches", `{"name":"  "}`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, "POST", "/roster/coaches", `{"name":`).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When adding batches", func() {
			known := do(mux, "POST", "/roster/batches", `{"coach":"Dilip","name":"SS 9 AM IST","level":"Expert"}`)
			unknown := do(mux, "POST", "/roster/batches", `{"coach":"Nobody","name":"SS 9 AM IST","level":"Expert"}`)

			Convey("Then applied reports whether the coach exists", func() {
				So(known.Code, ShouldEqual, http.StatusOK)
				So(decode[map[string]bool](known)["applied"], ShouldBeTrue)
				So(unknown.Code, ShouldEqual, http.StatusOK)
				So(decode[map[string]bool](unknown)["applied"], ShouldBeFalse)
			})
		})

		Convey("When listing levels", func() {
			So(decode[[]string](do(mux, "GET", "/levels", "")), ShouldResemble, model.Levels)
		})
	})
}

func TestSkillRoutes(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux, _ := newMux()

		Convey("When listing grades", func() {
			grades := decode[[]map[string]any](do(mux, "GET", "/grades", ""))

			Convey("Then they are best first with scores", func() {
				So(len(grades), ShouldEqual, 6)
				So(grades[0]["symbol"], ShouldEqual, "A+")
				So(grades[0]["score"], ShouldEqual, float64(100))
				So(grades[5]["symbol"], ShouldEqual, "E")
			})
		})

		Convey("When listing skills", func() {
			body := decode[map[string]any](do(mux, "GET", "/skills", ""))

			Convey("Then the default sheet is returned with totals", func() {
				So(len(body["skills"].([]any)), ShouldEqual, 9)
				So(body["total"], ShouldEqual, float64(540))
				So(body["max"], ShouldEqual, float64(900))
			})
		})

		Convey("When grading a skill", func() {
			w := do(mux, "PUT", "/skills/middle-game", `{"grade":"a+"}`)

			Convey("Then the evaluation is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				e := decode[map[string]any](w)
				So(e["id"], ShouldEqual, "middle-game")
				So(e["grade"], ShouldEqual, "A+")
				So(e["score"], ShouldEqual, float64(100))
			})
		})

		Convey("When grading an unknown skill or with an unknown grade", func() {
			So(do(mux, "PUT", "/skills/blitz", `{"grade":"A"}`).Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, "PUT", "/skills/focus", `{"grade":"F"}`).Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestStudentRoutes(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux, _ := newMux()

		Convey("When the whole selection is sent at once", func() {
			w := do(mux, "PUT", "/student", `{"name":"Riya","coach":"Dilip","batch":"WS 8 PM IST"}`)

			Convey("Then coach is applied before batch and the level is derived", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[model.Student](w), ShouldResemble, model.Student{
					Name: "Riya", Coach: "Dilip", Batch: "WS 8 PM IST", Level: "AL-2",
				})
			})

			Convey("And a later coach change clears the batch", func() {
				w := do(mux, "PUT", "/student", `{"coach":"Sahil Bhoyar"}`)
				st := decode[model.Student](w)
				So(st.Name, ShouldEqual, "Riya")
				So(st.Batch, ShouldBeEmpty)
				So(st.Level, ShouldBeEmpty)
			})
		})

		Convey("When a review is stored", func() {
			w := do(mux, "PUT", "/review", `{"text":"Strong finish."}`)

			Convey("Then it can be read back", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[map[string]string](do(mux, "GET", "/review", ""))["text"], ShouldEqual, "Strong finish.")
			})
		})
	})
}

const pngSignature = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUg=="

func TestSignatureRoutes(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux, _ := newMux()

		Convey("When no signature was uploaded", func() {
			w := do(mux, "GET", "/signature", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode[map[string]string](w)["signature"], ShouldBeEmpty)
		})

		Convey("When a PNG signature is uploaded", func() {
			w := do(mux, "PUT", "/signature", `{"signature":"`+pngSignature+`"}`)

			Convey("Then it is stored and appears in the report", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[map[string]string](w)["signature"], ShouldEqual, pngSignature)
				So(decode[map[string]string](do(mux, "GET", "/signature", ""))["signature"], ShouldEqual, pngSignature)
				So(decode[report.Report](do(mux, "GET", "/report", "")).Signature, ShouldEqual, pngSignature)
			})

			Convey("And deleting it clears the report slot", func() {
				So(do(mux, "DELETE", "/signature", "").Code, ShouldEqual, http.StatusNoContent)
				So(decode[report.Report](do(mux, "GET", "/report", "")).Signature, ShouldBeEmpty)
			})
		})

		Convey("When the upload is not an image data URL", func() {
			w := do(mux, "PUT", "/signature", `{"signature":"https://example.com/sig.png"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode[errorBody](w).Code, ShouldEqual, "bad_request")
		})

		Convey("When the image is over the size limit", func() {
			img := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, signature.MaxBytes)...)
			body := `{"signature":"data:image/png;base64,` + base64.StdEncoding.EncodeToString(img) + `"}`
			w := do(mux, "PUT", "/signature", body)
			So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
			So(decode[errorBody](w).Code, ShouldEqual, "signature_too_large")
		})
	})
}

func TestReportRoutes(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux, _ := newMux()

		Convey("When asking for the session verdict", func() {
			v := decode[map[string]any](do(mux, "GET", "/verdict", ""))
			So(v["status"], ShouldEqual, "NOT_READY")
			So(v["score"], ShouldEqual, float64(540))
		})

		Convey("When classifying a given score", func() {
			v := decode[map[string]any](do(mux, "GET", "/verdict?score=600", ""))
			So(v["status"], ShouldEqual, "ALMOST")
			So(do(mux, "GET", "/verdict?score=lots", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When building the report", func() {
			do(mux, "PUT", "/student", `{"name":"Riya Sen"}`)
			r := decode[report.Report](do(mux, "GET", "/report", ""))

			Convey("Then the snapshot is returned", func() {
				So(r.Total, ShouldEqual, 540)
				So(r.Date, ShouldEqual, "18 October 2026")
				So(r.Filename, ShouldEqual, "Archer_Report_Riya_Sen.pdf")
				So(*r.Readiness, ShouldEqual, 0)
			})
		})
	})
}

type failingRoster struct{}

func (failingRoster) Roster(context.Context) []model.Coach               { return nil }
func (failingRoster) AddCoach(context.Context, string) error             { return errors.New("disk on fire") }
func (failingRoster) AddBatch(context.Context, string, model.Batch) bool { return false }

func TestRosterHandler_InternalError(t *testing.T) {
	Convey("Given a roster dependency that fails", t, func() {
		h := api.NewRosterHandler(failingRoster{})
		req := httptest.NewRequest("POST", "/roster/coaches", strings.NewReader(`{"name":"X"}`))
		w := httptest.NewRecorder()
		h.HandlePostCoach(w, req)

		Convey("Then the error is reported as internal", func() {
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(decode[errorBody](w).Message, ShouldContainSubstring, "api.post_coach: disk on fire")
		})
	})
}

func TestErrors(t *testing.T) {
	Convey("Given wrapped API errors", t, func() {
		cause := errors.New("cause")
		err := api.WrapKind("api.op", api.ErrNotFound, cause)

		Convey("Then kind and cause both match", func() {
			So(errors.Is(err, api.ErrNotFound), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: not found: cause")
			So(api.NewKind("api.op", api.ErrConflict).Error(), ShouldEqual, "api.op: conflict")
			So(api.Wrap("api.op", nil), ShouldBeNil)
		})
	})
}
