package infra

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah renders whole rupiah the Indonesian way: "Rp 20.000".
func FormatRupiah(amount int64) string {
	if amount < 0 {
		return "-Rp " + idPrinter.Sprintf("%d", -amount)
	}
	return "Rp " + idPrinter.Sprintf("%d", amount)
}

// FormatNumber groups thousands with dots: 1250 → "1.250".
func FormatNumber(n int64) string {
	return idPrinter.Sprintf("%d", n)
}
