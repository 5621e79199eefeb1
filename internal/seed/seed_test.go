package seed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/courtevo/vero/internal/adapters/http/api"
	service "github.com/courtevo/vero/internal/app"
	"github.com/courtevo/vero/internal/domain/derive"
	"github.com/courtevo/vero/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newTestServer() (*httptest.Server, *service.Service) {
	svc := service.New()
	mux := http.NewServeMux()
	api.NewServer(svc).Register(context.Background(), mux)
	return httptest.NewServer(mux), svc
}

func testConfig(url string) *Config {
	return &Config{
		BaseURL:   url,
		Athletes:  40,
		Decisions: 10,
		Clubs:     8,
		Seed:      7,
		Season:    2024,
		Workers:   4,
		Timeout:   5 * time.Second,
	}
}

func TestGenerate(t *testing.T) {
	convey.Convey("Given a fixed seed", t, func() {
		ctx := context.Background()
		cfg := testConfig("")

		a := Generate(ctx, cfg)
		b := Generate(ctx, cfg)

		convey.Convey("Then generation is reproducible", func() {
			convey.So(a, convey.ShouldResemble, b)
			convey.So(a.Len(), convey.ShouldEqual, 58)
		})

		convey.Convey("Then every idempotency key is distinct", func() {
			keys := map[string]bool{}
			for _, it := range a.Athletes {
				keys[it.Key] = true
			}
			for _, it := range a.Decisions {
				keys[it.Key] = true
			}
			for _, it := range a.Clubs {
				keys[it.Key] = true
			}
			convey.So(keys, convey.ShouldHaveLength, a.Len())
		})

		convey.Convey("Then athletes carry plausible values", func() {
			for _, it := range a.Athletes {
				ath := it.Record
				convey.So(ath.Name, convey.ShouldNotBeEmpty)
				if ath.BirthDate != "" {
					_, ok := derive.ParseDate(ath.BirthDate)
					convey.So(ok, convey.ShouldBeTrue)
				}
				convey.So(ath.Readiness, convey.ShouldBeBetweenOrEqual, 0.0, 100.0)
				convey.So(ath.SessionsCompleted, convey.ShouldBeLessThanOrEqualTo, ath.SessionsPlanned)
				convey.So(ath.HeightSamples, convey.ShouldHaveLength, 2)
			}
		})

		convey.Convey("Then club names stay unique past the name list", func() {
			names := map[string]bool{}
			for _, it := range a.Clubs {
				names[it.Record.Name] = true
			}
			convey.So(names, convey.ShouldHaveLength, len(a.Clubs))
		})

		convey.Convey("Then another seed produces different data", func() {
			other := *cfg
			other.Seed = 8
			convey.So(Generate(ctx, &other).Athletes[0].Key, convey.ShouldNotEqual, a.Athletes[0].Key)
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given an empty service", t, func() {
		ctx := context.Background()
		srv, svc := newTestServer()
		defer srv.Close()
		cfg := testConfig(srv.URL)

		stats, err := Run(ctx, cfg)

		convey.Convey("Then every record is created and the reports verify", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(stats.Created, convey.ShouldEqual, 58)
			convey.So(stats.Failed, convey.ShouldEqual, 0)
			convey.So(stats.Checks, convey.ShouldBeGreaterThan, 0)
			convey.So(svc.ListAthletes(ctx), convey.ShouldHaveLength, 40)
		})

		convey.Convey("Then a rerun with the same seed only replays", func() {
			again, err := Run(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			convey.So(again.Replayed, convey.ShouldEqual, 58)
			convey.So(again.Created, convey.ShouldEqual, 0)
			convey.So(svc.ListAthletes(ctx), convey.ShouldHaveLength, 40)
		})
	})

	convey.Convey("Given an output file", t, func() {
		srv, _ := newTestServer()
		defer srv.Close()
		cfg := testConfig(srv.URL)
		cfg.OutputFile = filepath.Join(t.TempDir(), "out", "dataset.json")

		_, err := Run(context.Background(), cfg)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the dataset is written as JSON", func() {
			raw, err := os.ReadFile(cfg.OutputFile)
			convey.So(err, convey.ShouldBeNil)
			var d Dataset
			convey.So(json.Unmarshal(raw, &d), convey.ShouldBeNil)
			convey.So(d.Seed, convey.ShouldEqual, uint64(7))
			convey.So(d.Athletes, convey.ShouldHaveLength, 40)
		})
	})

	convey.Convey("Given no service listening", t, func() {
		srv, _ := newTestServer()
		url := srv.URL
		srv.Close()

		_, err := Run(context.Background(), testConfig(url))

		convey.Convey("Then the health check fails the run", func() {
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "health check")
		})
	})
}
