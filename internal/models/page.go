package models

type NavSurface string

const (
	SurfaceDesktop NavSurface = "desktop"
	SurfaceMobile  NavSurface = "mobile"
)

func (s NavSurface) IsValid() bool {
	return s == SurfaceDesktop || s == SurfaceMobile
}

const (
	PageHome        = "home"
	PageStudents    = "siswa"
	PageIncome      = "pemasukan"
	PageExpense     = "pengeluaran"
	PageReports     = "laporan"
	PageProfile     = "profile"
	DefaultPageName = "Dashboard"
)

// PageState is the router view: one visible section, a title and the highlighted nav item per surface.
type PageState struct {
	Current     string                `json:"current"`
	Visible     string                `json:"visible"`
	Title       string                `json:"title"`
	ActiveItems map[NavSurface]string `json:"active_items"`
}
