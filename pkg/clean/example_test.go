package clean_test

import (
	"context"
	"fmt"

	"github.com/scrubdata/scrub/pkg/clean"
	"github.com/scrubdata/scrub/pkg/frame"
)

func ExampleClean() {
	ds, err := frame.New(
		frame.Floats("age", 34, 0, 29, 33).WithMissing(1),
		frame.Strings("city", "oslo", "bergen", "oslo", "oslo"),
	)
	if err != nil {
		panic(err)
	}

	fileLog := false
	res, err := clean.Clean(context.Background(), ds, clean.Options{
		Numeric: clean.NumericMean,
		FileLog: &fileLog,
	})
	if err != nil {
		panic(err)
	}

	age, _ := res.Frame.Column("age")
	for i := 0; i < res.Frame.Len(); i++ {
		fmt.Println(age.IntAt(i))
	}
	fmt.Println(res.Frame.Has("city_oslo"))
	// Output:
	// 34
	// 32
	// 29
	// 33
	// true
}
