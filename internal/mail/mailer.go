// Package mail sends the application's transactional email: the welcome
// message on registration, new-movie and movie-updated notifications, and
// the CSV export produced by the queue worker. All sends are best-effort;
// callers dispatch them asynchronously and only log failures.
package mail

import (
	"encoding/base64"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// Mailer is the send-side contract consumed by services and the export
// worker. Implementations must be safe for concurrent use.
type Mailer interface {
	SendWelcome(user model.User) error
	SendNewMovie(users []model.User, movie model.Movie) error
	SendMovieUpdate(users []model.User, movie model.Movie) error
	SendCSVExport(email, csv string) error
}

// SMTPMailer sends mail through a plain SMTP endpoint.
type SMTPMailer struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

func NewSMTPMailer(host, port, user, pass, from string) *SMTPMailer {
	return &SMTPMailer{Host: host, Port: port, User: user, Pass: pass, From: from}
}

// SendWelcome greets a newly registered user.
func (m *SMTPMailer) SendWelcome(user model.User) error {
	body := fmt.Sprintf("Welcome %s %s! Your account has been created.", user.FirstName, user.LastName)
	return m.send([]string{user.Email}, "Welcome to IUT Application!", body, "", "")
}

// SendNewMovie notifies users that a movie was added to the catalog. A nil
// or empty recipient list is a no-op, not an error.
func (m *SMTPMailer) SendNewMovie(users []model.User, movie model.Movie) error {
	if len(users) == 0 {
		return nil
	}
	body := fmt.Sprintf("A new movie %q directed by %s has just been added!", movie.Title, movie.Director)
	return m.send(emails(users), "New Movie Available!", body, "", "")
}

// SendMovieUpdate notifies the users who favorited a movie that it changed.
func (m *SMTPMailer) SendMovieUpdate(users []model.User, movie model.Movie) error {
	if len(users) == 0 {
		return nil
	}
	body := fmt.Sprintf("Your favorite movie %q has been updated.", movie.Title)
	return m.send(emails(users), "A Favorite Movie Was Updated", body, "", "")
}

// SendCSVExport delivers the generated movie CSV as an attachment.
func (m *SMTPMailer) SendCSVExport(email, csv string) error {
	return m.send([]string{email}, "Your Movie Export",
		"Please find attached the CSV export of the movie catalog.",
		"movies.csv", csv)
}

func emails(users []model.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Email)
	}
	return out
}

// send builds a MIME message (with an optional attachment) and submits it
// via SMTP. Auth is skipped when no username is configured, which keeps
// local development against a relay like MailHog working.
func (m *SMTPMailer) send(to []string, subject, body, attachName, attachBody string) error {
	var sb strings.Builder
	sb.WriteString("From: " + m.From + "\r\n")
	sb.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")

	if attachName == "" {
		sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		sb.WriteString(body + "\r\n")
	} else {
		const boundary = "movie-catalog-mime-boundary"
		sb.WriteString("Content-Type: multipart/mixed; boundary=" + boundary + "\r\n\r\n")
		sb.WriteString("--" + boundary + "\r\n")
		sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		sb.WriteString(body + "\r\n\r\n")
		sb.WriteString("--" + boundary + "\r\n")
		sb.WriteString("Content-Type: text/csv; name=" + attachName + "\r\n")
		sb.WriteString("Content-Disposition: attachment; filename=" + attachName + "\r\n")
		sb.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
		sb.WriteString(base64.StdEncoding.EncodeToString([]byte(attachBody)) + "\r\n")
		sb.WriteString("--" + boundary + "--\r\n")
	}

	addr := m.Host + ":" + m.Port
	var auth smtp.Auth
	if m.User != "" {
		auth = smtp.PlainAuth("", m.User, m.Pass, m.Host)
	}
	return smtp.SendMail(addr, auth, fromAddress(m.From), to, []byte(sb.String()))
}

// fromAddress extracts the bare address from a "Name <addr>" header value.
func fromAddress(from string) string {
	if i := strings.Index(from, "<"); i >= 0 {
		if j := strings.Index(from[i:], ">"); j > 0 {
			return from[i+1 : i+j]
		}
	}
	return from
}
