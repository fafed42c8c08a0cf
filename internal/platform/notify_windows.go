//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

// Notify raises a toast through PowerShell. With a canvas picture the
// image-and-text template is used; the subtitle becomes the attribution
// line.
func Notify(title, body string, opts Options) error {
	cmd := exec.Command("powershell.exe", "-NoProfile", "-NonInteractive", "-Command", toastScript(title, body, opts))
	return cmd.Run()
}

func toastScript(title, body string, opts Options) string {
	image := strings.TrimSpace(opts.ImagePath)
	template := "ToastText02"
	if image != "" {
		template = "ToastImageAndText02"
	}
	lines := []string{
		"[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType=WindowsRuntime] > $null",
		"$xml = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::" + template + ")",
		"$text = $xml.GetElementsByTagName('text')",
		fmt.Sprintf("$text.Item(0).AppendChild($xml.CreateTextNode(%s)) > $null", psQuote(title)),
		fmt.Sprintf("$text.Item(1).AppendChild($xml.CreateTextNode(%s)) > $null", psQuote(body)),
	}
	if image != "" {
		lines = append(lines, fmt.Sprintf("$xml.GetElementsByTagName('image').Item(0).SetAttribute('src', %s)", psQuote(image)))
	}
	if sub := opts.Kind.Subtitle(); sub != "" {
		lines = append(lines,
			"$attr = $xml.CreateElement('text')",
			"$attr.SetAttribute('placement', 'attribution')",
			fmt.Sprintf("$attr.InnerText = %s", psQuote(sub)),
			"$xml.GetElementsByTagName('binding').Item(0).AppendChild($attr) > $null",
		)
	}
	lines = append(lines,
		"$toast = [Windows.UI.Notifications.ToastNotification]::new($xml)",
		fmt.Sprintf("[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier(%s).Show($toast)", psQuote(AppName)),
	)
	return strings.Join(lines, "; ")
}

// psQuote makes s a single-quoted PowerShell literal.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
