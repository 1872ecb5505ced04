package model

// StoreProfile is the singleton store identity printed on receipts and reports.
// Logo and QRISImage hold embedded images (data URIs) or URLs.
type StoreProfile struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	AdminName string `json:"adminName"`
	Logo      string `json:"logo"`
	QRISImage string `json:"qrisImage"`
}

// DefaultStoreProfile is used until the first profile save.
func DefaultStoreProfile() StoreProfile {
	return StoreProfile{
		Name:      "HF Frozen Food",
		Address:   "Jl. Raya Frozen No. 123, Jakarta Selatan",
		AdminName: "Admin Kasir",
	}
}

// Theme: "dark" | "light"
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

func (t Theme) Valid() bool { return t == ThemeDark || t == ThemeLight }
