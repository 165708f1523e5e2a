// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

package recommend

// majorKeywords maps a major name to the keyword expansion used when building
// student query text. The expansion is what makes a "Data Science" student
// land on programming and statistics material rather than anything containing
// the word "science". Majors not present fall back to the lowercased major
// name with no expansion.
var majorKeywords = map[string]string{
	// Computer science and IT
	"Computer Science":       "programming software development web mobile algorithms data structures computer science coding python java javascript",
	"Software Engineering":   "software engineering development programming coding architecture design patterns agile scrum",
	"Data Science":           "data analysis machine learning statistics python AI artificial intelligence data science analytics big data",
	"Information Technology": "IT information technology systems networking database administration cloud computing",
	"Cybersecurity":          "cybersecurity network security information security ethical hacking cryptography penetration testing",

	// Engineering
	"Biomedical Engineering":    "medical health biotechnology biomechanics devices anatomy physiology biomedical engineering signal processing medical devices",
	"Mechanical Engineering":    "mechanical CAD thermodynamics mechanics manufacturing design mechanical engineering",
	"Electrical Engineering":    "electrical circuits electronics embedded systems signal processing electrical engineering",
	"Civil Engineering":         "civil engineering construction structural design infrastructure transportation",
	"Chemical Engineering":      "chemical engineering process design chemistry manufacturing materials",
	"Aerospace Engineering":     "aerospace engineering aircraft spacecraft aerodynamics propulsion",
	"Industrial Engineering":    "industrial engineering operations research optimization manufacturing systems",
	"Environmental Engineering": "environmental engineering sustainability pollution control water treatment",

	// Business
	"Business Administration": "management leadership strategy entrepreneurship MBA business administration marketing finance",
	"Business Management":     "business management operations strategy leadership organizational behavior",
	"Marketing":               "marketing digital advertising branding social media SEO analytics marketing",
	"Finance":                 "finance accounting investment banking financial economics trading finance",
	"Accounting":              "accounting financial reporting auditing taxation bookkeeping",
	"Economics":               "economics macro micro econometrics market policy trade economics",
	"Entrepreneurship":        "entrepreneurship startups business planning innovation venture capital",
	"International Business":  "international business global trade cross-cultural management",

	// Psychology
	"Psychology":           "psychology mental health counseling behavioral cognitive therapy psychology research",
	"Clinical Psychology":  "clinical psychology therapy counseling mental health treatment",
	"Cognitive Psychology": "cognitive psychology brain cognition memory learning",

	// Sciences
	"Biology":             "biology genetics molecular cell microbiology ecology evolution biology",
	"Molecular Biology":   "molecular biology genetics DNA RNA proteins cell biology",
	"Biochemistry":        "biochemistry chemistry biology proteins enzymes metabolism",
	"Genetics":            "genetics DNA RNA heredity genomics molecular genetics",
	"Chemistry":           "chemistry organic inorganic analytical biochemistry laboratory chemistry",
	"Organic Chemistry":   "organic chemistry carbon compounds reactions synthesis",
	"Physical Chemistry":  "physical chemistry thermodynamics quantum mechanics spectroscopy",
	"Mathematics":         "mathematics calculus algebra statistics linear geometry mathematics",
	"Applied Mathematics": "applied mathematics modeling optimization numerical methods",
	"Statistics":          "statistics data analysis probability regression hypothesis testing",
	"Physics":             "physics quantum mechanics thermodynamics relativity electromagnetism physics",
	"Theoretical Physics": "theoretical physics quantum mechanics relativity particle physics",
	"Applied Physics":     "applied physics engineering physics materials science",

	// Health and medicine
	"Medicine":        "medicine clinical healthcare nursing anatomy pharmacology medicine",
	"Nursing":         "nursing patient care clinical healthcare medical procedures nursing",
	"Pharmacy":        "pharmacy pharmaceuticals drug therapy medication",
	"Public Health":   "public health epidemiology health policy community health",
	"Health Sciences": "health sciences healthcare medical research public health",

	// Design and arts
	"Graphic Design":    "design graphic visual UI UX creative photoshop illustrator design",
	"Industrial Design": "industrial design product design manufacturing ergonomics",
	"Fashion Design":    "fashion design clothing textiles style trends",
	"Architecture":      "architecture building design construction urban planning",

	// Communications and media
	"Communications": "communication media journalism public relations writing communications",
	"Journalism":     "journalism news reporting writing media ethics",
	"Media Studies":  "media studies communication theory digital media",

	// Humanities
	"English Literature": "english literature writing poetry novels literary analysis",
	"History":            "history historical research ancient modern world history",
	"Political Science":  "political science government policy international relations",
	"Sociology":          "sociology social research society culture social issues",
	"Anthropology":       "anthropology culture human society archaeology",
	"Philosophy":         "philosophy ethics logic metaphysics epistemology",

	// Education
	"Education":                 "education teaching pedagogy curriculum learning",
	"Early Childhood Education": "early childhood education preschool teaching child development",
	"Special Education":         "special education disabilities learning support",

	// Law and justice
	"Law":              "law legal studies jurisprudence contracts criminal law",
	"Criminal Justice": "criminal justice law enforcement criminology",

	// Social work
	"Social Work": "social work counseling community services social services",

	// Arts
	"Art":          "art painting drawing sculpture visual arts",
	"Music":        "music composition performance theory",
	"Theater":      "theater drama acting performance",
	"Film Studies": "film studies cinema production directing",

	"Other": "general education learning academic",
}

// KnownMajors returns the majors covered by the keyword lexicon, useful for
// API discovery endpoints.
func KnownMajors() []string {
	majors := make([]string, 0, len(majorKeywords))
	for m := range majorKeywords {
		majors = append(majors, m)
	}
	return majors
}
