package session_test

import (
	"context"
	"testing"

	"github.com/okian/hireview/internal/domain/session"
	"github.com/okian/hireview/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestContext(t *testing.T) {
	Convey("Given a bare context", t, func() {
		ctx := context.Background()

		Convey("Then it carries no session", func() {
			_, ok := session.FromContext(ctx)
			So(ok, ShouldBeFalse)
		})

		Convey("When a session is attached", func() {
			s := session.Session{Token: "t1", User: types.User{Username: "hr"}}
			ctx = session.WithSession(ctx, s)

			Convey("Then it is returned as given", func() {
				got, ok := session.FromContext(ctx)
				So(ok, ShouldBeTrue)
				So(got, ShouldResemble, s)
			})
		})

		Convey("When an empty session is attached", func() {
			ctx = session.WithSession(ctx, session.Session{})

			Convey("Then it does not count", func() {
				_, ok := session.FromContext(ctx)
				So(ok, ShouldBeFalse)
			})
		})
	})
}
