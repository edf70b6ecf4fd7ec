package golearn

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/argentumzz/movie/pkg/frame"
)

func ratedFrame() *frame.Frame {
	f := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{
		{Name: "rating", Type: frame.KindFloat},
		{Name: "year", Type: frame.KindInt},
		{Name: "genre_names", Type: frame.KindString},
	}})
	_ = f.AppendRow(4.0, 1995, "Animation")
	_ = f.AppendRow(nil, 1995, "Comedy")
	_ = f.AppendRow(3.5, 1996, nil)
	return f
}

func TestDenseInstancesRoundTrip(t *testing.T) {
	convey.Convey("Given a joined ratings frame", t, func() {
		inst, err := ToDenseInstances(ratedFrame(), "genre_names")
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("The instances keep its shape", func() {
			nCols, nRows := inst.Size()
			convey.So(nCols, convey.ShouldEqual, 3)
			convey.So(nRows, convey.ShouldEqual, 3)
			convey.So(inst.AllClassAttributes()[0].GetName(), convey.ShouldEqual, "genre_names")
		})

		convey.Convey("Converting back restores values and nulls", func() {
			f, err := FromDenseInstances(inst)
			convey.So(err, convey.ShouldBeNil)
			rating, _ := f.ColumnByName("rating")
			year, _ := f.ColumnByName("year")
			genre, _ := f.ColumnByName("genre_names")
			convey.So(rating.Value(0), convey.ShouldEqual, 4.0)
			convey.So(rating.IsNull(1), convey.ShouldBeTrue)
			convey.So(year.Value(2), convey.ShouldEqual, 1996.0)
			convey.So(genre.Value(1), convey.ShouldEqual, "Comedy")
			convey.So(genre.IsNull(2), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Naming a missing class column fails", t, func() {
		_, err := ToDenseInstances(ratedFrame(), "title")
		convey.So(errors.Is(err, frame.ErrColumnNotFound), convey.ShouldBeTrue)
	})
}

func TestARFFRoundTrip(t *testing.T) {
	convey.Convey("Given a frame without nulls", t, func() {
		f := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{
			{Name: "rating", Type: frame.KindFloat},
			{Name: "genre_names", Type: frame.KindString},
		}})
		_ = f.AppendRow(4.0, "Animation")
		_ = f.AppendRow(3.5, "Comedy")
		path := filepath.Join(t.TempDir(), "exploded.arff")

		convey.Convey("It survives an ARFF round trip", func() {
			convey.So(WriteARFF(path, "exploded", f), convey.ShouldBeNil)
			back, err := ReadARFF(path)
			convey.So(err, convey.ShouldBeNil)
			convey.So(back.Rows(), convey.ShouldEqual, 2)
			rating, _ := back.ColumnByName("rating")
			genre, _ := back.ColumnByName("genre_names")
			convey.So(rating.Value(1), convey.ShouldEqual, 3.5)
			convey.So(genre.Value(0), convey.ShouldEqual, "Animation")
		})
	})

	convey.Convey("Reading a missing ARFF file is a parse failure", t, func() {
		_, err := ReadARFF(filepath.Join(t.TempDir(), "missing.arff"))
		convey.So(errors.Is(err, frame.ErrParseFailure), convey.ShouldBeTrue)
	})
}
