package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given a text logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithOutput(&buf)), ShouldBeNil)
		defer func() { _ = Init() }()

		Convey("When logging at info", func() {
			Get().Info(context.Background(), "saved", String("k", "v"), Int("n", 3))

			Convey("Then the record carries message, fields and source", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "msg=saved")
				So(out, ShouldContainSubstring, "k=v")
				So(out, ShouldContainSubstring, "n=3")
				So(out, ShouldContainSubstring, "logger_test.go:")
			})
		})

		Convey("When logging at debug with the default level", func() {
			Get().Debug(context.Background(), "hidden")

			Convey("Then nothing is written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the level is lowered to debug", func() {
			So(SetLevelString("DEBUG"), ShouldBeNil)
			Get().Debug(context.Background(), "visible")

			Convey("Then debug records are written", func() {
				So(buf.String(), ShouldContainSubstring, "msg=visible")
			})
		})
	})
}

func TestLoggerJSON(t *testing.T) {
	Convey("Given a JSON logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithOutput(&buf), WithJSON(true)), ShouldBeNil)
		defer func() { _ = Init() }()

		Convey("When a named logger with attached fields logs an error", func() {
			l := Named("session").With(String("session_id", "abc"))
			l.Error(context.Background(), "persist failed", Error(errors.New("disk full")), Bool("persisted", false))

			Convey("Then the JSON record contains every attribute", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "persist failed")
				So(rec["component"], ShouldEqual, "session")
				So(rec["session_id"], ShouldEqual, "abc")
				So(rec["error"], ShouldEqual, "disk full")
				So(rec["persisted"], ShouldEqual, false)
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		So(SetLevelString("info"), ShouldBeNil)
		So(SetLevelString(""), ShouldBeNil)
		So(SetLevelString("warning"), ShouldBeNil)
		So(SetLevelString("error"), ShouldBeNil)

		Convey("Then unknown levels are rejected", func() {
			So(SetLevelString("loud"), ShouldNotBeNil)
		})

		Reset(func() { _ = SetLevelString("info") })
	})
}

func TestNop(t *testing.T) {
	Convey("Given a nop logger", t, func() {
		l := Nop()

		Convey("Then logging does not panic", func() {
			So(func() {
				l.Info(context.Background(), "x")
				l.With(String("a", "b")).Named("n").Warn(context.Background(), "y")
			}, ShouldNotPanic)
		})
	})
}
