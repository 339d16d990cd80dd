// internal/workers/career/match-employers/matcher.go
package matchemployers

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"collegepath-workers/internal/models"
)

// MatchEmployers scores recruiting partners against the student's college
// tiers and intended major.
//
// Rules:
//  1. An active preference must share at least one tier with the student's
//     list; an empty intersection skips that preference.
//  2. The first matching preference per employer wins.
//  3. An empty keyword list means the employer recruits all majors.
//
// Matched employers sort major-match first, then by name.
func MatchEmployers(employers []models.EmployerWithPrefs, studentTiers []string, studentMajor string) []models.EmployerMatch {
	var results []models.EmployerMatch
	majorLower := strings.ToLower(studentMajor)

	for _, employer := range employers {
		for _, pref := range employer.RecruitingPrefs {
			if !pref.IsActive {
				continue
			}

			matchedTiers := intersectTiers(studentTiers, pref.CollegeTiers)
			if len(matchedTiers) == 0 {
				continue
			}

			results = append(results, models.EmployerMatch{
				Employer:     employer.Employer,
				MatchedTiers: matchedTiers,
				MatchedMajor: majorMatches(pref.MajorKeywords, majorLower),
			})
			break
		}
	}

	coll := collate.New(language.English)
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].MatchedMajor != results[j].MatchedMajor {
			return results[i].MatchedMajor
		}
		return coll.CompareString(results[i].Employer.Name, results[j].Employer.Name) < 0
	})

	return results
}

// intersectTiers keeps the student's tiers that the preference declares,
// preserving the student's ordering.
func intersectTiers(studentTiers, prefTiers []string) []string {
	var matched []string
	for _, tier := range studentTiers {
		for _, pt := range prefTiers {
			if tier == pt {
				matched = append(matched, tier)
				break
			}
		}
	}
	return matched
}

func majorMatches(keywords []string, majorLower string) bool {
	if len(keywords) == 0 {
		return true
	}
	for _, kw := range keywords {
		if strings.Contains(majorLower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
