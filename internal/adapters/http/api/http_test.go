package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/courtevo/vero/internal/adapters/export"
	"github.com/courtevo/vero/internal/adapters/http/api"
	service "github.com/courtevo/vero/internal/app"
	"github.com/courtevo/vero/internal/domain/dedupe"
	"github.com/courtevo/vero/internal/domain/model"
	"github.com/courtevo/vero/internal/domain/reports"
	"github.com/courtevo/vero/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newMux(opts ...api.ServerOption) (*http.ServeMux, *service.Service) {
	n := 0
	svc := service.New(
		service.WithClock(func() time.Time { return fixedNow }),
		service.WithIDFunc(func() string {
			n++
			return "id-" + strconv.Itoa(n)
		}),
	)
	mux := http.NewServeMux()
	api.NewServer(svc, opts...).Register(context.Background(), mux)
	return mux, svc
}

func do(mux http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](rec *httptest.ResponseRecorder) T {
	var v T
	So(json.Unmarshal(rec.Body.Bytes(), &v), ShouldBeNil)
	return v
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func TestAthleteRoutes(t *testing.T) {
	Convey("Given an API over an empty roster", t, func() {
		mux, _ := newMux()

		Convey("The roster starts empty", func() {
			rec := do(mux, http.MethodGet, "/athletes", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(decode[[]model.Athlete](rec), ShouldBeEmpty)
		})

		Convey("Creating an athlete returns 201 with a generated id", func() {
			rec := do(mux, http.MethodPost, "/athletes", `{"name":"Ada","squad":"U14","coach":"Kim"}`)
			So(rec.Code, ShouldEqual, http.StatusCreated)
			a := decode[model.Athlete](rec)
			So(a.ID, ShouldEqual, "id-1")
			So(a.Watchlist, ShouldBeFalse)

			Convey("Toggling the watchlist flips the flag", func() {
				rec := do(mux, http.MethodPost, "/athletes/id-1/watchlist", "")
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(decode[model.Athlete](rec).Watchlist, ShouldBeTrue)

				rec = do(mux, http.MethodGet, "/athletes?watchlist=true", "")
				So(decode[[]model.Athlete](rec), ShouldHaveLength, 1)
				rec = do(mux, http.MethodGet, "/athletes?watchlist=false", "")
				So(decode[[]model.Athlete](rec), ShouldBeEmpty)
			})

			Convey("Patching changes only the named fields", func() {
				rec := do(mux, http.MethodPatch, "/athletes/id-1", `{"squad":"U16"}`)
				So(rec.Code, ShouldEqual, http.StatusOK)
				a := decode[model.Athlete](rec)
				So(a.Squad, ShouldEqual, "U16")
				So(a.Coach, ShouldEqual, "Kim")
			})

			Convey("Notes, heights and readiness are appended", func() {
				rec := do(mux, http.MethodPost, "/athletes/id-1/notes", `{"author":"Kim","text":"good week"}`)
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(decode[model.Athlete](rec).Notes, ShouldHaveLength, 1)

				rec = do(mux, http.MethodPost, "/athletes/id-1/heights", `{"date":"2024-01-01","value":160}`)
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(decode[model.Athlete](rec).HeightSamples, ShouldHaveLength, 1)

				rec = do(mux, http.MethodPost, "/athletes/id-1/readiness", `{"value":72}`)
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(decode[model.Athlete](rec).Readiness, ShouldEqual, 72.0)

				rec = do(mux, http.MethodPost, "/athletes/id-1/readiness", `{}`)
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("Deleting removes it", func() {
				rec := do(mux, http.MethodDelete, "/athletes/id-1", "")
				So(rec.Code, ShouldEqual, http.StatusNoContent)
				rec = do(mux, http.MethodGet, "/athletes/id-1", "")
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("Bad input maps to 400", func() {
			rec := do(mux, http.MethodPost, "/athletes", `{"name":""}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(decode[errorBody](rec).Code, ShouldEqual, "bad_request")

			rec = do(mux, http.MethodPost, "/athletes", `{not json`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)

			rec = do(mux, http.MethodGet, "/athletes?limit=0", "")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)

			rec = do(mux, http.MethodGet, "/athletes?watchlist=maybe", "")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Unknown ids map to 404", func() {
			rec := do(mux, http.MethodPost, "/athletes/nope/watchlist", "")
			So(rec.Code, ShouldEqual, http.StatusNotFound)
			So(decode[errorBody](rec).Code, ShouldEqual, "not_found")
		})

		Convey("Wrong methods are rejected by the mux", func() {
			rec := do(mux, http.MethodPut, "/athletes", "")
			So(rec.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})

		Convey("Limit truncates the listing", func() {
			for _, name := range []string{"A", "B", "C"} {
				do(mux, http.MethodPost, "/athletes", `{"name":"`+name+`"}`)
			}
			rec := do(mux, http.MethodGet, "/athletes?limit=2", "")
			So(decode[[]model.Athlete](rec), ShouldHaveLength, 2)
		})
	})
}

func TestIdempotentCreate(t *testing.T) {
	Convey("Given a create request carrying an Idempotency-Key", t, func() {
		mux, svc := newMux()
		body := `{"name":"Ada"}`

		first := do(mux, http.MethodPost, "/athletes", body, "Idempotency-Key", "k1")
		So(first.Code, ShouldEqual, http.StatusCreated)

		Convey("A retry returns the original record without adding another", func() {
			again := do(mux, http.MethodPost, "/athletes", body, "Idempotency-Key", "k1")
			So(again.Code, ShouldEqual, http.StatusOK)
			So(again.Header().Get("Idempotent-Replay"), ShouldEqual, "true")
			So(decode[model.Athlete](again).ID, ShouldEqual, decode[model.Athlete](first).ID)
			So(svc.ListAthletes(context.Background()), ShouldHaveLength, 1)
		})

		Convey("The same key on another collection is independent", func() {
			rec := do(mux, http.MethodPost, "/clubs", `{"name":"North"}`, "Idempotency-Key", "k1")
			So(rec.Code, ShouldEqual, http.StatusCreated)
		})

		Convey("A failed create frees the key", func() {
			bad := do(mux, http.MethodPost, "/decisions", `{"what":""}`, "Idempotency-Key", "k2")
			So(bad.Code, ShouldEqual, http.StatusBadRequest)
			ok := do(mux, http.MethodPost, "/decisions", `{"what":"Book gym"}`, "Idempotency-Key", "k2")
			So(ok.Code, ShouldEqual, http.StatusCreated)
		})
	})

	Convey("Given a key whose first request is still running", t, func() {
		d := dedupe.NewInMemoryDeduper()
		mux, _ := newMux(api.WithDeduper(d))
		d.SeenAndRecord(context.Background(), "athletes:busy")

		rec := do(mux, http.MethodPost, "/athletes", `{"name":"Ada"}`, "Idempotency-Key", "busy")
		So(rec.Code, ShouldEqual, http.StatusConflict)
		So(decode[errorBody](rec).Code, ShouldEqual, "in_flight")
	})
}

func TestDecisionRoutes(t *testing.T) {
	Convey("Given a decision created by a named actor", t, func() {
		mux, _ := newMux()
		rec := do(mux, http.MethodPost, "/decisions",
			`{"what":"Add recovery day","who":"Lee","due":"2024-05-01T00:00:00Z"}`, "X-Actor", "Kim")
		So(rec.Code, ShouldEqual, http.StatusCreated)
		d := decode[model.Decision](rec)
		So(d.Status, ShouldEqual, model.StatusPlanned)
		So(d.Audit, ShouldHaveLength, 1)
		So(d.Audit[0].Actor, ShouldEqual, "Kim")

		Convey("A status change appends to the audit trail", func() {
			rec := do(mux, http.MethodPatch, "/decisions/"+d.ID, `{"status":"done"}`, "X-Actor", "Lee")
			So(rec.Code, ShouldEqual, http.StatusOK)
			d := decode[model.Decision](rec)
			So(d.Status, ShouldEqual, model.StatusDone)
			So(d.Audit, ShouldHaveLength, 2)
			So(d.Audit[1].Actor, ShouldEqual, "Lee")
		})

		Convey("An unknown status is rejected", func() {
			rec := do(mux, http.MethodPatch, "/decisions/"+d.ID, `{"status":"someday"}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Compliance counts the past-due item as overdue", func() {
			rec := do(mux, http.MethodGet, "/reports/compliance", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			c := decode[reports.ComplianceReport](rec)
			So(c.Total, ShouldEqual, 1)
			So(c.ByStatus[model.StatusOverdue], ShouldEqual, 1)
			So(c.PercentOverdue, ShouldEqual, 100.0)
		})
	})
}

func TestReportRoutes(t *testing.T) {
	Convey("Given a small roster and two clubs", t, func() {
		mux, _ := newMux()
		for _, body := range []string{
			`{"name":"A","coach":"Kim","squad":"U14","birth_date":"2010-02-01","readiness":85}`,
			`{"name":"B","coach":"Kim","squad":"U14","birth_date":"2010-11-20","readiness":50}`,
		} {
			So(do(mux, http.MethodPost, "/athletes", body).Code, ShouldEqual, http.StatusCreated)
		}
		for _, body := range []string{
			`{"name":"North","categories":[{"name":"coaching","score":90,"weight":1}]}`,
			`{"name":"South","categories":[{"name":"coaching","score":60,"weight":1}]}`,
		} {
			So(do(mux, http.MethodPost, "/clubs", body).Code, ShouldEqual, http.StatusCreated)
		}

		Convey("Relative age groups by coach by default", func() {
			rec := do(mux, http.MethodGet, "/reports/relative-age", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			r := decode[reports.RelativeAgeReport](rec)
			So(r.GroupBy, ShouldEqual, reports.GroupByCoach)
			So(r.Rows, ShouldHaveLength, 1)
			So(r.Rows[0].Bias, ShouldEqual, 50.0)
		})

		Convey("An unknown grouping is a bad request", func() {
			rec := do(mux, http.MethodGet, "/reports/relative-age?group=position", "")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Readiness classifies each athlete", func() {
			r := decode[reports.ReadinessReport](do(mux, http.MethodGet, "/reports/readiness", ""))
			So(r.Rows, ShouldHaveLength, 2)
			So(r.Average, ShouldEqual, 67.5)
		})

		Convey("Reputation ranks the clubs", func() {
			r := decode[reports.ReputationReport](do(mux, http.MethodGet, "/reports/reputation", ""))
			So(r.Rows, ShouldHaveLength, 2)
			So(r.Rows[0].Name, ShouldEqual, "North")
			So(r.Rows[0].Rank, ShouldEqual, 1)
			So(r.Rows[0].Tier, ShouldEqual, "gold")
		})

		Convey("Growth is served even without samples", func() {
			rec := do(mux, http.MethodGet, "/reports/growth", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestTransferRoutes(t *testing.T) {
	Convey("Given one athlete on the roster", t, func() {
		mux, _ := newMux()
		do(mux, http.MethodPost, "/athletes", `{"name":"Ada, Jr.","squad":"U14"}`)

		Convey("The CSV export is an attachment with a header row", func() {
			rec := do(mux, http.MethodGet, "/export/athletes.csv", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Content-Type"), ShouldStartWith, "text/csv")
			So(rec.Header().Get("Content-Disposition"), ShouldContainSubstring, "athletes.csv")
			So(rec.Body.String(), ShouldStartWith, "name,")
			So(rec.Body.String(), ShouldContainSubstring, `"Ada, Jr."`)
		})

		Convey("The xlsx export opens as a workbook", func() {
			rec := do(mux, http.MethodGet, "/export/athletes.xlsx", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
			So(err, ShouldBeNil)
			defer f.Close()
			rows, err := f.GetRows(f.GetSheetName(0))
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 2)
		})

		Convey("The decisions export is served as CSV", func() {
			rec := do(mux, http.MethodGet, "/export/decisions.csv", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldStartWith, "id,")
		})

		Convey("Importing a workbook replaces the roster when asked", func() {
			var buf bytes.Buffer
			So(export.WriteAthletesXLSX(&buf, []model.Athlete{{Name: "Bo"}, {Name: "Cy"}}), ShouldBeNil)

			rec := do(mux, http.MethodPost, "/import/athletes?mode=replace", buf.String())
			So(rec.Code, ShouldEqual, http.StatusOK)
			res := decode[export.ImportResult](rec)
			So(res.Imported, ShouldEqual, 2)
			So(res.Replaced, ShouldBeTrue)
			So(res.Total, ShouldEqual, 2)
		})

		Convey("An unknown import mode or a non-workbook body is rejected", func() {
			So(do(mux, http.MethodPost, "/import/athletes?mode=merge", "x").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/import/athletes", "not a workbook").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestRateLimit(t *testing.T) {
	Convey("Given a limiter with a burst of one", t, func() {
		mux, _ := newMux(api.WithRateLimit(0.001, 1))

		So(do(mux, http.MethodPost, "/athletes", `{"name":"A"}`).Code, ShouldEqual, http.StatusCreated)

		Convey("The next write is throttled", func() {
			rec := do(mux, http.MethodPost, "/athletes", `{"name":"B"}`)
			So(rec.Code, ShouldEqual, http.StatusTooManyRequests)
			So(rec.Header().Get("Retry-After"), ShouldEqual, "1")
		})

		Convey("Reads are never throttled", func() {
			for range 3 {
				So(do(mux, http.MethodGet, "/athletes", "").Code, ShouldEqual, http.StatusOK)
			}
		})
	})
}

func TestHealthAndStats(t *testing.T) {
	Convey("Given a running API", t, func() {
		mux, _ := newMux()

		Convey("healthz answers JSON by default", func() {
			rec := do(mux, http.MethodGet, "/healthz", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(decode[map[string]string](rec)["status"], ShouldEqual, "ok")
		})

		Convey("healthz serves metrics to scrapers", func() {
			do(mux, http.MethodGet, "/athletes", "")
			rec := do(mux, http.MethodGet, "/healthz", "", "Accept", "text/plain")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "http_requests_total")
		})

		Convey("stats reports collection sizes", func() {
			do(mux, http.MethodPost, "/athletes", `{"name":"A"}`)
			stats := decode[map[string]any](do(mux, http.MethodGet, "/stats", ""))
			So(stats["athletes"], ShouldEqual, float64(1))
		})
	})
}
