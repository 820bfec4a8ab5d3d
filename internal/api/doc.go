// Package api is the HTTP client for the pilight backend.
//
// Every reply is JSON with a {"success": bool, "error": string} envelope,
// except the driver endpoints, which may answer with an empty body. The
// session is a Django session: POSTs carry the CSRF token learned from
// bootstrap in the X-CSRFToken header, and cookies live in the client's jar.
//
// # Basic Usage
//
//	client := api.NewClient("http://pilight.local:8000")
//	data, err := client.Bootstrap(ctx)
//	if err != nil {
//	    fmt.Println(api.Hint(err))
//	    return err
//	}
//
//	configs, err := client.SaveConfig(ctx, "evening")
//
// # Errors
//
// All methods return *Error values. Use the classification helpers to react:
//
//	if api.IsAuthError(err) {
//	    // prompt for login
//	}
//	msg := api.ShortMessage(err) // one line, suitable for a status bar
package api
