package dataset_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/basecall/internal/adapters/dataset"
	"github.com/okian/basecall/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const twoCycles = `ref1,Cy3,Cy5,FAM,ROX,spacer,ref2,Cy3_2,Cy5_2,FAM_2,ROX_2
A,5,0,0,0,,C,0,9,1,0
C,0,5,0,0,,G,0,0,7,0
A,0,0,0,0,,T,1,0,0,8
`

func TestParse(t *testing.T) {
	Convey("Given a two-cycle table", t, func() {
		ds, err := dataset.Parse(strings.NewReader(twoCycles), dataset.DefaultSchema())
		So(err, ShouldBeNil)

		Convey("Then both cycles are resolved by name", func() {
			So(len(ds.Cycles), ShouldEqual, 2)
			c1 := ds.Cycles[0]
			So(c1.Name, ShouldEqual, "1")
			So(c1.Dyes, ShouldResemble, [model.NumDyes]model.Dye{"Cy3", "Cy5", "FAM", "ROX"})
			So(model.SequenceString(c1.Reference), ShouldEqual, "ACA")
			So(c1.Intensities.Row(0), ShouldResemble, []float64{5, 0, 0, 0})

			c2 := ds.Cycles[1]
			So(c2.Dyes[3], ShouldEqual, model.Dye("ROX_2"))
			So(model.SequenceString(c2.Reference), ShouldEqual, "CGT")
			So(c2.Intensities.At(2, 3), ShouldEqual, 8)
		})

		Convey("Then the raw rows and a digest are kept", func() {
			So(len(ds.Rows), ShouldEqual, 3)
			So(len(ds.Header), ShouldEqual, 11)
			So(len(ds.Digest), ShouldEqual, 64)
			again, _ := dataset.Parse(strings.NewReader(twoCycles), dataset.DefaultSchema())
			So(again.Digest, ShouldEqual, ds.Digest)
		})
	})

	Convey("Given malformed tables", t, func() {
		cases := map[string]string{
			"non-numeric intensity": "r,a,b,c,d\nA,1,x,0,0\n",
			"negative intensity":    "r,a,b,c,d\nA,1,-2,0,0\n",
			"bad reference":         "r,a,b,c,d\nQ,1,0,0,0\n",
			"short row":             "r,a,b,c,d\nA,1,0\n",
			"row wider than header": "r,a,b,c,d\nA,1,0,0,0,extra\n",
			"no rows":               "r,a,b,c,d\n",
			"no header":             "",
		}
		schema := dataset.Schema{{Name: "1", Reference: 0, Dyes: [model.NumDyes]int{1, 2, 3, 4}}}
		for name, in := range cases {
			_, err := dataset.Parse(strings.NewReader(in), schema)
			Convey("Then "+name+" is rejected as malformed input", func() {
				So(errors.Is(err, model.ErrMalformedInput), ShouldBeTrue)
			})
		}
	})

	Convey("Given a non-numeric value", t, func() {
		schema := dataset.Schema{{Name: "1", Reference: 0, Dyes: [model.NumDyes]int{1, 2, 3, 4}}}
		_, err := dataset.Parse(strings.NewReader("r,a,b,c,d\nA,1,x,0,0\n"), schema)

		Convey("Then the message names the cycle and column", func() {
			So(err.Error(), ShouldContainSubstring, "cycle 1")
			So(err.Error(), ShouldContainSubstring, `"b"`)
		})
	})
}

func TestSchemaValidate(t *testing.T) {
	Convey("Given schemas", t, func() {
		So(dataset.DefaultSchema().Validate(), ShouldBeNil)
		So(errors.Is(dataset.Schema{}.Validate(), dataset.ErrSchema), ShouldBeTrue)
		dup := dataset.Schema{{Name: "1", Reference: 0, Dyes: [model.NumDyes]int{0, 1, 2, 3}}}
		So(errors.Is(dup.Validate(), dataset.ErrSchema), ShouldBeTrue)
		twice := dataset.Schema{
			{Name: "1", Reference: 0, Dyes: [model.NumDyes]int{1, 2, 3, 4}},
			{Name: "1", Reference: 5, Dyes: [model.NumDyes]int{6, 7, 8, 9}},
		}
		So(errors.Is(twice.Validate(), dataset.ErrSchema), ShouldBeTrue)
		negative := dataset.Schema{{Name: "1", Reference: 0, Dyes: [model.NumDyes]int{1, 2, 3, 4}, CallsAt: -1}}
		So(errors.Is(negative.Validate(), dataset.ErrSchema), ShouldBeTrue)
	})
}

func TestWriteCalls(t *testing.T) {
	Convey("Given a parsed table and per-cycle calls", t, func() {
		ds, err := dataset.Parse(strings.NewReader(twoCycles), dataset.DefaultSchema())
		So(err, ShouldBeNil)
		results := []*model.CycleResult{
			{Name: "1", Basecalls: []model.Base{model.A, model.C, model.N}},
			{Name: "2", Basecalls: []model.Base{model.C, model.G, model.T}},
		}

		var buf bytes.Buffer
		So(dataset.WriteCalls(&buf, ds, results), ShouldBeNil)

		Convey("Then each calls column closes its cycle's block", func() {
			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			So(len(lines), ShouldEqual, 4)
			So(lines[0], ShouldEqual, "ref1,Cy3,Cy5,FAM,ROX,spacer,new_calls_1,ref2,Cy3_2,Cy5_2,FAM_2,ROX_2,new_calls_2")
			So(strings.Split(lines[0], ",")[6], ShouldEqual, "new_calls_1")
			So(lines[1], ShouldEqual, "A,5,0,0,0,,A,C,0,9,1,0,C")
			So(lines[3], ShouldEqual, "A,0,0,0,0,,N,T,1,0,0,8,T")
		})

		Convey("Then mismatched call counts are refused", func() {
			bad := []*model.CycleResult{{Name: "1", Basecalls: []model.Base{model.A}}}
			So(dataset.WriteCalls(&buf, ds, bad), ShouldNotBeNil)
			short := []*model.CycleResult{results[0], {Name: "2", Basecalls: []model.Base{model.A}}}
			So(dataset.WriteCalls(&buf, ds, short), ShouldNotBeNil)
		})
	})

	Convey("Given a layout without explicit calls positions", t, func() {
		schema := dataset.Schema{
			{Name: "a", Reference: 0, Dyes: [model.NumDyes]int{1, 2, 3, 4}},
			{Name: "b", Reference: 5, Dyes: [model.NumDyes]int{6, 7, 8, 9}, CallsAt: 99},
		}
		in := "r1,a,b,c,d,r2,e,f,g,h,note\nA,1,0,0,0,C,0,1,0,0,x\n"
		ds, err := dataset.Parse(strings.NewReader(in), schema)
		So(err, ShouldBeNil)
		results := []*model.CycleResult{
			{Name: "a", Basecalls: []model.Base{model.A}},
			{Name: "b", Basecalls: []model.Base{model.C}},
		}

		var buf bytes.Buffer
		So(dataset.WriteCalls(&buf, ds, results), ShouldBeNil)

		Convey("Then calls follow the cycle's last field, or the row end when out of range", func() {
			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			So(lines[0], ShouldEqual, "r1,a,b,c,d,new_calls_a,r2,e,f,g,h,note,new_calls_b")
			So(lines[1], ShouldEqual, "A,1,0,0,0,A,C,0,1,0,0,x,C")
		})
	})
}

func TestRead(t *testing.T) {
	Convey("Given a file on disk", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "run.csv")
		So(os.WriteFile(path, []byte(twoCycles), 0o600), ShouldBeNil)

		ds, err := dataset.Read(context.Background(), path, dataset.DefaultSchema())
		So(err, ShouldBeNil)
		So(ds.Path, ShouldEqual, path)

		Convey("Then a missing file is an error", func() {
			_, err := dataset.Read(context.Background(), filepath.Join(dir, "nope.csv"), dataset.DefaultSchema())
			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
		})
	})

	Convey("Given output naming", t, func() {
		So(dataset.OutputPath("data/run.csv", "_new_calls.csv"), ShouldEqual, "data/run_new_calls.csv")
		So(dataset.OutputPath("run", "_analysis_log.txt"), ShouldEqual, "run_analysis_log.txt")
	})
}
