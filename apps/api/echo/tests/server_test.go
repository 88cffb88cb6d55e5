package tests

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/courseportal/apps/api/echo"
	"github.com/trezcool/courseportal/core"
	"github.com/trezcool/courseportal/core/catalog"
	"github.com/trezcool/courseportal/core/registration"
	"github.com/trezcool/courseportal/services/logger"
	"github.com/trezcool/courseportal/storage/database/inmem"
	"github.com/trezcool/courseportal/tests"
)

// corruptCarts fails every read the way an unreadable cart row does.
type corruptCarts struct {
	registration.Repository
}

func (corruptCarts) GetCart(context.Context, string) (registration.Cart, error) {
	return registration.Cart{}, errors.Wrap(core.NewShutdownError("corrupt sections for student s1"), "decoding sections")
}

func TestServer_Shutdown(t *testing.T) {
	db := testutil.PrepareDB(t)
	catalogSvc := catalog.NewService(inmemdb.NewCourseRepository(db))
	carts := corruptCarts{Repository: inmemdb.NewCartRepository(db)}
	app := NewServer(&Options{
		DisableReqLogs:  true,
		Logger:          logsvc.NewRollbarLogger(io.Discard, core.Conf),
		CatalogSvc:      catalogSvc,
		RegistrationSvc: registration.NewService(carts, catalogSvc, maxCredits),
	})
	token := getToken(t, "s1", false)

	t.Run("regular errors keep serving", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/courses/nope")
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		select {
		case <-app.Shutdown():
			t.Fatal("server asked to shut down")
		default:
		}
	})

	t.Run("integrity errors ask to shut down", func(t *testing.T) {
		for i := 0; i < 2; i++ { // signalling twice must not panic
			req, rec := newAuthRequest(http.MethodGet, "/v1/cart", token)
			app.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
		}

		select {
		case <-app.Shutdown():
		default:
			t.Fatal("server did not ask to shut down")
		}
	})
}
