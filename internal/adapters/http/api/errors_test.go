package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/adlens/internal/domain/insights"
	"github.com/okian/adlens/internal/domain/model"
)

func TestKindError(t *testing.T) {
	Convey("Given a wrapped domain error", t, func() {
		cause := fmt.Errorf("%w: start_date: bad", model.ErrInvalidRequest)
		err := Wrap("api.test", cause)

		Convey("Both the kind and the cause are reachable", func() {
			So(errors.Is(err, ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, model.ErrInvalidRequest), ShouldBeTrue)
			So(err.Error(), ShouldStartWith, "api.test: bad request: ")
			So(messageOf(err), ShouldEqual, cause.Error())
		})
	})

	Convey("Nil errors stay nil", t, func() {
		So(Wrap("op", nil), ShouldBeNil)
		So(WrapKind("op", ErrBadRequest, nil), ShouldBeNil)
	})

	Convey("A kind without a cause reports the kind", t, func() {
		err := NewKind("op", ErrInternal)
		So(messageOf(err), ShouldEqual, "internal error")
		status, code := statusFor(err)
		So(status, ShouldEqual, 500)
		So(code, ShouldEqual, "internal_error")
	})

	Convey("Comparison without platforms is unprocessable", t, func() {
		status, _ := statusFor(Wrap("op", insights.ErrNoPlatforms))
		So(status, ShouldEqual, 422)
	})
}

func TestErrorClassification(t *testing.T) {
	Convey("Status codes classify into error types", t, func() {
		So(getErrorType(500), ShouldEqual, "server_error")
		So(getErrorType(429), ShouldEqual, "rate_limit")
		So(getErrorType(404), ShouldEqual, "not_found")
		So(getErrorType(422), ShouldEqual, "client_error")
		So(getErrorSeverity(503), ShouldEqual, "high")
		So(getErrorSeverity(400), ShouldEqual, "medium")
		So(getErrorSeverity(200), ShouldEqual, "low")
	})
}

func TestWriteJSON(t *testing.T) {
	Convey("A value that cannot be encoded becomes an internal error", t, func() {
		w := httptest.NewRecorder()
		writeJSON(w, 200, map[string]float64{"roas": math.Inf(1)})

		So(w.Code, ShouldEqual, 500)
		var body errorResponse
		So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
		So(body.Code, ShouldEqual, "internal_error")
		So(body.Message, ShouldEqual, "internal error")
	})

	Convey("Encodable values keep their status", t, func() {
		w := httptest.NewRecorder()
		writeJSON(w, 201, map[string]int{"n": 1})
		So(w.Code, ShouldEqual, 201)
		So(w.Body.String(), ShouldEqual, "{\"n\":1}\n")
		So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
	})
}
