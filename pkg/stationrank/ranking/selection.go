package ranking

import "github.com/stationrank/stationrank-go/pkg/stationrank/models"

// Selection identifies the active results tab. It is a plain value passed
// between the presentation layer and the result; the engine keeps no
// selection state.
//
// Label addresses a partition by its tab label and takes precedence over
// WorkCenter and Team. It is the only way to reach the teamless TU tab.
type Selection struct {
	WorkCenter string
	Team       string
	Label      string
}

// WorkCenters lists the distinct work centers of result in tab order.
func WorkCenters(result *models.Result) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, p := range result.Partitions {
		if _, ok := seen[p.WorkCenter]; ok {
			continue
		}
		seen[p.WorkCenter] = struct{}{}
		out = append(out, p.WorkCenter)
	}
	return out
}

// Teams lists the team subdivisions of workCenter in tab order.
func Teams(result *models.Result, workCenter string) []string {
	var out []string
	for _, p := range result.Partitions {
		if p.WorkCenter == workCenter && p.Team != "" {
			out = append(out, p.Team)
		}
	}
	return out
}

// DefaultSelection selects the first work center, and its first team when
// it is split by team.
func DefaultSelection(result *models.Result) Selection {
	centers := WorkCenters(result)
	if len(centers) == 0 {
		return Selection{}
	}
	return Normalize(result, Selection{WorkCenter: centers[0]})
}

// Normalize applies the tab rules to sel: only TeamSplitWorkCenter keeps a
// team, and selecting it without a team picks its first team.
func Normalize(result *models.Result, sel Selection) Selection {
	if sel.WorkCenter != TeamSplitWorkCenter {
		sel.Team = ""
		return sel
	}
	if sel.Team == "" {
		if teams := Teams(result, sel.WorkCenter); len(teams) > 0 {
			sel.Team = teams[0]
		}
	}
	return sel
}

// Labels lists the tab labels of result in tab order.
func Labels(result *models.Result) []string {
	out := make([]string, 0, len(result.Partitions))
	for _, p := range result.Partitions {
		out = append(out, p.Label)
	}
	return out
}

// Select returns the normalized selection and its partition. The boolean is
// false when no partition matches.
func Select(result *models.Result, sel Selection) (Selection, *models.Partition, bool) {
	if sel.Label != "" {
		for i := range result.Partitions {
			p := &result.Partitions[i]
			if p.Label == sel.Label {
				return Selection{WorkCenter: p.WorkCenter, Team: p.Team, Label: p.Label}, p, true
			}
		}
		return sel, nil, false
	}
	sel = Normalize(result, sel)
	for i := range result.Partitions {
		p := &result.Partitions[i]
		if p.WorkCenter == sel.WorkCenter && p.Team == sel.Team {
			return sel, p, true
		}
	}
	return sel, nil, false
}
