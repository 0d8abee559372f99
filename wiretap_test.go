package wiretap

import (
	"context"
	"fmt"
)

func ExampleSignal() {
	name := NewSignal("initial")
	name.Listen(func(values ...any) {
		fmt.Println(values[0])
	})

	name.Next("next")

	// Output:
	// initial
	// next
}

func ExampleJoin() {
	username := NewSignal("")
	password := NewSignal("")

	enabled := MustJoin(username, password).Combine(func(values ...any) any {
		u, p := values[0].(string), values[1].(string)
		return len(u) > 0 && len(p) > 0
	})
	enabled.Listen(func(values ...any) {
		fmt.Println(values[0])
	})

	username.Next("a")
	password.Next("b")

	// Output:
	// false
	// false
	// true
}

func ExampleWiretap_Filter() {
	numbers := New()
	numbers.
		Filter(func(values ...any) bool { return values[0].(int)%2 == 0 }).
		Map(func(v any) any { return v.(int) * 10 }).
		Listen(func(values ...any) { fmt.Println(values[0]) })

	for i := range 5 {
		numbers.Emit(i)
	}

	// Output:
	// 0
	// 20
	// 40
}

func ExampleNewProgressTask() {
	task := NewProgressTask(func(ctx context.Context, progress func(values ...any)) error {
		progress(1)
		progress(2)
		progress(3)
		return nil
	})

	task.
		Listen(func(values ...any) { fmt.Println(values[0]) }).
		OnComplete(func() { fmt.Println("done") })

	// nothing runs until the pipeline is built and started
	task.Start()

	// Output:
	// 1
	// 2
	// 3
	// done
}
