package formx_test

import (
	"fmt"
	"strings"

	"github.com/avdatabase/x/formx"
)

func ExampleEncode() {
	fd := formx.NewFormData(formx.Field{Name: "title", Value: "Map of Springfield"})

	body := formx.Encode("B1", fd)
	fmt.Println(strings.ReplaceAll(string(body), "\r\n", "|"))
	// Output:
	// --B1|Content-Disposition: form-data; name="title"||Map of Springfield|--B1--
}

func ExampleEncoder() {
	fd := &formx.FormData{}
	fd.Set("status", "In progress")

	var sb strings.Builder
	enc := formx.NewEncoder(&sb, "B2")
	if err := enc.Encode(fd); err != nil {
		fmt.Println(err)
	}
	fmt.Println(enc.FormDataContentType())
	fmt.Println(strings.ReplaceAll(sb.String(), "\r\n", "|"))
	// Output:
	// multipart/form-data; boundary=B2
	// --B2|Content-Disposition: form-data; name="status"||In progress|--B2--
}
