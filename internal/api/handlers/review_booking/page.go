package review_booking

import (
	"bytes"
	"html/template"
	"net/http"

	reviewBooking "github.com/m04kA/SMC-CoachBooking/internal/usecase/review_booking"
)

var pageTemplate = template.Must(template.New("review").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body{font-family:system-ui,sans-serif;background:#f6f4f0;color:#2b2b2b;display:flex;min-height:100vh;align-items:center;justify-content:center;margin:0}
main{background:#fff;border-radius:12px;padding:2rem 2.5rem;max-width:32rem;box-shadow:0 2px 12px rgba(0,0,0,.08)}
h1{font-size:1.4rem;margin-top:0}
</style>
</head>
<body>
<main>
<h1>{{.Title}}</h1>
<p>{{.Text}}</p>
{{if .When}}<p><strong>{{.When}}</strong></p>{{end}}
</main>
</body>
</html>
`))

type page struct {
	Title string
	Text  string
	When  string
}

func pageFor(resp *reviewBooking.Response) (int, page) {
	when := ""
	if resp.Date != "" {
		when = resp.Date + " " + resp.Time
	}

	switch resp.Outcome {
	case reviewBooking.OutcomeConfirmed:
		return http.StatusOK, page{"Booking confirmed", "The booking is confirmed and the client has been notified.", when}
	case reviewBooking.OutcomeDeclined:
		return http.StatusOK, page{"Booking declined", "The request was declined. The client has been notified and the slot is open again.", when}
	case reviewBooking.OutcomeAlreadyConfirmed:
		return http.StatusOK, page{"Already confirmed", "This booking was already confirmed. Nothing was changed.", when}
	case reviewBooking.OutcomeNotFound:
		return http.StatusNotFound, page{"Slot not found", "This slot no longer exists. It may have been deleted.", ""}
	default:
		return http.StatusOK, page{"Link invalid or already used", "This link is invalid or has already been used. Nothing was changed.", when}
	}
}

var errorPage = page{"Something went wrong", "The decision could not be saved. Please try the link again later.", ""}

func render(p page) []byte {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		return []byte(template.HTMLEscapeString(p.Title))
	}
	return buf.Bytes()
}
