// Package regask provides a Go client for the regask question-answering API.
//
//	client, _ := regask.New("http://localhost:8000", regask.WithAPIKey(key))
//	ans, err := client.Ask(ctx, "What is a waiting period?")
//	for _, b := range ans.Bullets {
//	    fmt.Println("-", b)
//	}
//
// Errors returned by the service are *APIError values; use errors.Is with
// ErrBadRequest, ErrUnauthorized or ErrInternal to classify them.
package regask
