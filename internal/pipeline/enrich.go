package pipeline

import (
	"log"
	"strings"
	"time"

	"research-data-pipeline/internal/model"
	"research-data-pipeline/pkg/utils"
)

// Section categories are matched in this fixed priority order; the first
// keyword hit wins.
var sectionCategories = []struct {
	name     string
	keywords []string
}{
	{"Methodology", []string{"method", "approach", "algorithm"}},
	{"Results", []string{"result", "experiment", "evaluation"}},
	{"Background", []string{"related", "background", "literature"}},
	{"Conclusion", []string{"conclusion", "future", "discussion"}},
}

// EnrichThesis adds the thesis-specific derived columns: content_density,
// complexity_score and section_type. Every derivation is skipped with a
// log line when its source columns are missing; enrichment never fails a
// cleaning run.
func EnrichThesis(t *model.Table) {
	coerceBoolColumns(t, []string{"has_algorithms", "has_case_study", "has_limitations"})

	pages := t.ColumnIndex("estimated_pages")
	figures := t.ColumnIndex("num_figures")
	tables := t.ColumnIndex("num_tables")
	equations := t.ColumnIndex("num_equations")
	difficulty := t.ColumnIndex("difficulty_score")

	densityDerived := false
	if pages >= 0 && figures >= 0 && tables >= 0 && equations >= 0 {
		density := make([]interface{}, t.NumRows())
		for r, row := range t.Rows {
			f, _ := utils.Numeric(row[figures])
			tb, _ := utils.Numeric(row[tables])
			e, _ := utils.Numeric(row[equations])
			p, _ := utils.Numeric(row[pages])
			if p < 1 {
				p = 1
			}
			density[r] = (f + tb + e) / p
		}
		t.AddColumn("content_density", density)
		densityDerived = true
	} else {
		log.Printf("⚠️ Skipping content_density: missing source columns")
	}

	if difficulty >= 0 {
		densityIdx := t.ColumnIndex("content_density")
		complexity := make([]interface{}, t.NumRows())
		for r, row := range t.Rows {
			d, ok := utils.Numeric(row[difficulty])
			if !ok {
				complexity[r] = nil
				continue
			}
			if densityDerived {
				cd, _ := utils.Numeric(row[densityIdx])
				complexity[r] = d * cd
			} else {
				// Density inputs missing: complexity falls back to the
				// difficulty score alone.
				complexity[r] = d
			}
		}
		t.AddColumn("complexity_score", complexity)
	} else {
		log.Printf("⚠️ Skipping complexity_score: missing difficulty_score column")
	}

	title := t.ColumnIndex("section_title")
	if title >= 0 {
		types := make([]interface{}, t.NumRows())
		for r, row := range t.Rows {
			types[r] = CategorizeSection(model.FormatCell(row[title]))
		}
		t.AddColumn("section_type", types)
	} else {
		log.Printf("⚠️ Skipping section_type: missing section_title column")
	}

	log.Printf("✅ Thesis data cleaned and processed")
}

// CategorizeSection maps a section title onto a fixed category by
// case-insensitive keyword match, first matching category winning.
func CategorizeSection(title string) string {
	lower := strings.ToLower(title)
	for _, cat := range sectionCategories {
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				return cat.name
			}
		}
	}
	return "Other"
}

// EnrichPapers adds the papers-specific derived columns and the impact and
// readability tiers. Missing source columns skip the individual feature.
func EnrichPapers(t *model.Table) {
	coerceBoolColumns(t, []string{"has_code", "has_appendix", "has_acknowledgements"})

	citations := t.ColumnIndex("citations")
	year := t.ColumnIndex("year")
	references := t.ColumnIndex("references_count")
	pages := t.ColumnIndex("pages")
	sections := t.ColumnIndex("sections")
	subsections := t.ColumnIndex("subsections")
	readability := t.ColumnIndex("readability_score")

	if citations >= 0 && year >= 0 {
		current := float64(time.Now().Year())
		perYear := make([]interface{}, t.NumRows())
		for r, row := range t.Rows {
			c, okC := utils.Numeric(row[citations])
			y, okY := utils.Numeric(row[year])
			if !okC || !okY || current-y+1 <= 0 {
				perYear[r] = nil
				continue
			}
			perYear[r] = c / (current - y + 1)
		}
		t.AddColumn("citations_per_year", perYear)
	} else {
		log.Printf("⚠️ Skipping citations_per_year: missing source columns")
	}

	if references >= 0 && pages >= 0 {
		perPage := make([]interface{}, t.NumRows())
		for r, row := range t.Rows {
			ref, okR := utils.Numeric(row[references])
			p, okP := utils.Numeric(row[pages])
			if !okR || !okP || p == 0 {
				perPage[r] = nil
				continue
			}
			perPage[r] = ref / p
		}
		t.AddColumn("references_per_page", perPage)
	} else {
		log.Printf("⚠️ Skipping references_per_page: missing source columns")
	}

	if sections >= 0 && subsections >= 0 && pages >= 0 {
		complexity := make([]interface{}, t.NumRows())
		for r, row := range t.Rows {
			s, okS := utils.Numeric(row[sections])
			sub, okSub := utils.Numeric(row[subsections])
			p, okP := utils.Numeric(row[pages])
			if !okS || !okSub || !okP || p == 0 {
				complexity[r] = nil
				continue
			}
			complexity[r] = (s + sub) / p
		}
		t.AddColumn("complexity_index", complexity)
	} else {
		log.Printf("⚠️ Skipping complexity_index: missing source columns")
	}

	if citations >= 0 {
		impact := make([]interface{}, t.NumRows())
		for r, row := range t.Rows {
			c, _ := utils.Numeric(row[citations])
			impact[r] = CategorizeImpact(c)
		}
		t.AddColumn("impact_category", impact)
	} else {
		log.Printf("⚠️ Skipping impact_category: missing citations column")
	}

	if readability >= 0 {
		tiers := make([]interface{}, t.NumRows())
		for r, row := range t.Rows {
			score, _ := utils.Numeric(row[readability])
			tiers[r] = CategorizeReadability(score)
		}
		t.AddColumn("readability_category", tiers)
	} else {
		log.Printf("⚠️ Skipping readability_category: missing readability_score column")
	}

	log.Printf("✅ Papers data cleaned and processed")
}

// CategorizeImpact tiers a paper by citation count.
func CategorizeImpact(citations float64) string {
	switch {
	case citations >= 200:
		return "High Impact"
	case citations >= 50:
		return "Medium Impact"
	default:
		return "Low Impact"
	}
}

// CategorizeReadability tiers a paper by readability score.
func CategorizeReadability(score float64) string {
	switch {
	case score >= 50:
		return "High Readability"
	case score >= 40:
		return "Medium Readability"
	default:
		return "Low Readability"
	}
}

// coerceBoolColumns converts boolean-like columns to 0/1 ints for
// downstream numeric consistency.
func coerceBoolColumns(t *model.Table, names []string) {
	for _, name := range names {
		i := t.ColumnIndex(name)
		if i < 0 || t.Kind(i) != model.KindBoolean {
			continue
		}
		for _, row := range t.Rows {
			switch v := row[i].(type) {
			case string:
				switch strings.ToLower(v) {
				case "true", "yes":
					row[i] = 1
				case "false", "no":
					row[i] = 0
				}
			case bool:
				if v {
					row[i] = 1
				} else {
					row[i] = 0
				}
			case float64:
				row[i] = int(v)
			}
		}
	}
}
