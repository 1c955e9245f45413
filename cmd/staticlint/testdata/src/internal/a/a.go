package a

import (
	"fmt"
	stdlog "log"
)

func f() {
	stdlog.Println("x") // want "используйте logger.L\\(\\) вместо стандартного log"
	fmt.Printf("%d", 1) // want "вывод в stdout из internal запрещён"
	_ = fmt.Sprintf("%d", 1)
}
