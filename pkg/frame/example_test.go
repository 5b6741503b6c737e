package frame_test

import (
	"fmt"

	"github.com/scrubdata/scrub/pkg/frame"
)

func ExampleNew() {
	ds, err := frame.New(
		frame.Ints("age", 23, 31, 47),
		frame.Strings("city", "berlin", "", "paris").WithMissing(1),
	)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println("rows:", ds.Len())
	fmt.Println("columns:", ds.Names())
	fmt.Println("missing:", ds.MissingCount())
	// Output:
	// rows: 3
	// columns: [age city]
	// missing: 1
}

func ExampleKindOf() {
	cols := []*frame.Column{
		frame.Floats("price", 9.99, 12.50),
		frame.Strings("joined", "2021-01-02", "2021-03-04"),
		frame.Strings("city", "berlin", "paris"),
	}
	for _, c := range cols {
		fmt.Printf("%s: %s\n", c.Name(), frame.KindOf(c))
	}
	// Output:
	// price: numeric
	// joined: datetime
	// city: categorical
}

func ExampleFrame_DeleteRows() {
	ds, _ := frame.New(
		frame.Ints("id", 1, 2, 3, 4),
		frame.Strings("name", "a", "b", "c", "d"),
	)

	ds.DeleteRows([]int{1, 3})

	for i := 0; i < ds.Len(); i++ {
		id, _ := ds.Column("id")
		name, _ := ds.Column("name")
		fmt.Println(id.IntAt(i), name.StringAt(i))
	}
	// Output:
	// 1 a
	// 3 c
}
