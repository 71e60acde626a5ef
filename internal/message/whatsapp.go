// Package message builds WhatsApp deep links and the canned client messages.
// Message bodies stay in Italian; they are sent to the salon's clients as-is.
package message

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// CleanPhone strips everything but digits and a leading plus.
func CleanPhone(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WhatsAppURL builds the whatsapp://send deep link for a phone number and a
// pre-formatted message.
func WhatsAppURL(phone, text string) string {
	return fmt.Sprintf("whatsapp://send?phone=%s&text=%s", CleanPhone(phone), url.QueryEscape(text))
}

// BirthdayMessage is the canned birthday greeting.
func BirthdayMessage(name string) string {
	return fmt.Sprintf("Ciao %s! 🎉\n\nTanti auguri di buon compleanno dal Centro Estetico! 🎂\n\nTi auguriamo una giornata speciale! 💖", name)
}

// WinBackMessage is the canned reminder for inactive clients.
func WinBackMessage(name string) string {
	return fmt.Sprintf("Ciao %s! 💖\n\nCi manchi! È passato un po' di tempo dall'ultima volta che ci siamo viste.\n\nVorremmo ricordarti che siamo sempre qui per prenderci cura di te! 🌸\n\nContattaci per prenotare il tuo prossimo trattamento.", name)
}

// PromotionMessage formats a promotion announcement.
func PromotionMessage(name, description, from, to string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✨ %s ✨\n\n", name)
	if description != "" {
		fmt.Fprintf(&b, "%s\n\n", description)
	}
	fmt.Fprintf(&b, "📅 Valida dal %s al %s", from, to)
	return b.String()
}

// Open hands the link to the OS URL opener. The handoff is fire-and-forget;
// only the failure to launch the opener is reported.
func Open(link string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", link)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", link)
	default:
		cmd = exec.Command("xdg-open", link)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", link, err)
	}
	return nil
}
