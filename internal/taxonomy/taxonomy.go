// Package taxonomy holds the static classification lists the bot is deployed
// with: faculties, the majors taught by each faculty, and entry-year cohorts.
// The engine never hard-codes these values; it only asks the package for the
// current option sets and validates selections against them.
package taxonomy

// Faculties in presentation order.
var faculties = []string{
	"Medicine",
	"Dentistry",
	"Pharmacy",
	"Public Health",
	"Rehabilitation",
	"Nutrition Sciences",
	"Paramedical Sciences",
	"Nursing and Midwifery",
	"Advanced Medical Technologies",
	"Traditional Medicine",
}

var majorsByFaculty = map[string][]string{
	"Medicine":  {"Medicine"},
	"Dentistry": {"Dentistry"},
	"Pharmacy":  {"Pharmacy"},
	"Public Health": {
		"Public Health", "Environmental Health",
		"Occupational Health and Safety", "Health Education",
	},
	"Rehabilitation": {
		"Physiotherapy", "Occupational Therapy", "Audiology",
		"Speech Therapy", "Optometry",
	},
	"Nutrition Sciences": {"Nutrition Sciences", "Food Science and Technology"},
	"Paramedical Sciences": {
		"Laboratory Sciences", "Operating Room Technology", "Anesthesiology",
		"Emergency Medical Care", "Radiology Technology", "Radiotherapy Technology",
	},
	"Nursing and Midwifery": {"Nursing", "Midwifery"},
	"Advanced Medical Technologies": {
		"Health Information Technology", "Biomedical Engineering",
		"Advanced Medical Technologies",
	},
	"Traditional Medicine": {"Traditional Medicine"},
}

var cohorts = []string{
	"2019", "2020", "2021", "2022", "2023", "2024", "2025", "2026",
}

// Faculties returns the faculty option set.
func Faculties() []string {
	return faculties
}

// Majors returns the majors taught by the given faculty, or nil when the
// faculty is unknown.
func Majors(faculty string) []string {
	return majorsByFaculty[faculty]
}

// Cohorts returns the entry-year option set.
func Cohorts() []string {
	return cohorts
}

// ValidFaculty reports whether v is a current faculty option.
func ValidFaculty(v string) bool {
	return contains(faculties, v)
}

// ValidMajor reports whether v is a current major option for faculty.
func ValidMajor(faculty, v string) bool {
	return contains(majorsByFaculty[faculty], v)
}

// ValidCohort reports whether v is a current cohort option.
func ValidCohort(v string) bool {
	return contains(cohorts, v)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
