package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/hireview/internal/adapters/repository"
	"github.com/okian/hireview/internal/domain/session"
	"github.com/okian/hireview/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSQLSessionStore(t *testing.T) {
	Convey("Given a sqlite session store", t, func() {
		ctx := context.Background()
		dsn := "file:" + filepath.Join(t.TempDir(), "sessions.db")
		store, err := repository.OpenSessionStore(ctx, repository.DriverSQLite, dsn)
		So(err, ShouldBeNil)
		defer store.Close()

		Convey("When nothing was saved", func() {
			_, err := store.Load(ctx, "default")

			Convey("Then ErrNoSession is returned", func() {
				So(errors.Is(err, session.ErrNoSession), ShouldBeTrue)
			})
		})

		Convey("When a session is saved", func() {
			at := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
			in := session.Session{
				Token:     "tok-1",
				User:      types.User{EmpID: 7, Username: "hr.ann", Email: "ann@corp.io", Role: "HR"},
				CreatedAt: at,
			}
			So(store.Save(ctx, "default", in), ShouldBeNil)

			Convey("Then it loads back unchanged", func() {
				out, err := store.Load(ctx, "default")
				So(err, ShouldBeNil)
				So(out.Token, ShouldEqual, "tok-1")
				So(out.User, ShouldResemble, in.User)
				So(out.CreatedAt.Equal(at), ShouldBeTrue)
			})

			Convey("And saving again replaces it", func() {
				in.Token = "tok-2"
				So(store.Save(ctx, "default", in), ShouldBeNil)
				out, err := store.Load(ctx, "default")
				So(err, ShouldBeNil)
				So(out.Token, ShouldEqual, "tok-2")
			})

			Convey("And deleting it logs out", func() {
				So(store.Delete(ctx, "default"), ShouldBeNil)
				_, err := store.Load(ctx, "default")
				So(errors.Is(err, session.ErrNoSession), ShouldBeTrue)
				So(store.Delete(ctx, "default"), ShouldBeNil)
			})
		})
	})

	Convey("Given an unknown driver", t, func() {
		_, err := repository.OpenSessionStore(context.Background(), "mysql", "x")

		Convey("Then ErrUnknownDriver is returned", func() {
			So(errors.Is(err, repository.ErrUnknownDriver), ShouldBeTrue)
		})
	})
}
