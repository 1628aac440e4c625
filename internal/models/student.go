package models

type PaymentStatus string

const (
	PaymentPaid  PaymentStatus = "lunas"
	PaymentOwing PaymentStatus = "tunggakan"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "aktif"
	EnrollmentInactive  EnrollmentStatus = "tidak-aktif"
	EnrollmentGraduated EnrollmentStatus = "lulus"
)

const DefaultAvatarURL = "https://via.placeholder.com/32"

// ClassCodes lists the class codes offered by the add and edit forms, in display order.
var ClassCodes = []string{"10A", "10B", "11A", "11B", "12A", "12B"}

// Student is one roster record. NIS is the primary key and never changes after creation.
type Student struct {
	NIS                string           `json:"nis"`
	Name               string           `json:"name"`
	Email              string           `json:"email"`
	ClassName          string           `json:"kelas"`
	PaymentStatus      PaymentStatus    `json:"status_spp"`
	OutstandingBalance int64            `json:"tunggakan"`
	EnrollmentStatus   EnrollmentStatus `json:"status"`
	AvatarURL          string           `json:"avatar"`
}

// StatusBadges returns every status badge a row displays: enrollment first, then payment.
func (s Student) StatusBadges() []string {
	return []string{string(s.EnrollmentStatus), string(s.PaymentStatus)}
}

// Normalize enforces the paid-means-no-balance rule.
func (s *Student) Normalize() {
	if s.PaymentStatus == PaymentPaid {
		s.OutstandingBalance = 0
	}
}

func IsValidClassCode(code string) bool {
	for _, c := range ClassCodes {
		if c == code {
			return true
		}
	}
	return false
}

func (e EnrollmentStatus) IsValid() bool {
	switch e {
	case EnrollmentActive, EnrollmentInactive, EnrollmentGraduated:
		return true
	}
	return false
}

func (e EnrollmentStatus) Label() string {
	switch e {
	case EnrollmentActive:
		return "Aktif"
	case EnrollmentInactive:
		return "Tidak Aktif"
	case EnrollmentGraduated:
		return "Lulus"
	}
	return string(e)
}

func (p PaymentStatus) IsValid() bool {
	return p == PaymentPaid || p == PaymentOwing
}

// SeedStudents returns the roster every session starts with.
func SeedStudents() []Student {
	return []Student{
		{
			NIS:                "2024001",
			Name:               "Ahmad Rizki",
			Email:              "ahmad.rizki@email.com",
			ClassName:          "10A",
			PaymentStatus:      PaymentPaid,
			OutstandingBalance: 0,
			EnrollmentStatus:   EnrollmentActive,
			AvatarURL:          DefaultAvatarURL,
		},
		{
			NIS:                "2024002",
			Name:               "Siti Fatimah",
			Email:              "siti.fatimah@email.com",
			ClassName:          "10B",
			PaymentStatus:      PaymentOwing,
			OutstandingBalance: 1500000,
			EnrollmentStatus:   EnrollmentActive,
			AvatarURL:          DefaultAvatarURL,
		},
		{
			NIS:                "2024003",
			Name:               "Budi Santoso",
			Email:              "budi.santoso@email.com",
			ClassName:          "11A",
			PaymentStatus:      PaymentPaid,
			OutstandingBalance: 0,
			EnrollmentStatus:   EnrollmentActive,
			AvatarURL:          DefaultAvatarURL,
		},
		{
			NIS:                "2023001",
			Name:               "Dewi Lestari",
			Email:              "dewi.lestari@email.com",
			ClassName:          "12A",
			PaymentStatus:      PaymentPaid,
			OutstandingBalance: 0,
			EnrollmentStatus:   EnrollmentGraduated,
			AvatarURL:          DefaultAvatarURL,
		},
	}
}
