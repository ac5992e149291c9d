package ranking

import (
	"github.com/stationrank/stationrank-go/pkg/stationrank/columns"
	"github.com/stationrank/stationrank-go/pkg/stationrank/models"
)

// TeamSplitWorkCenter is the work center whose rows are partitioned by team.
const TeamSplitWorkCenter = "TU"

// Group is an unsorted partition of input rows.
type Group struct {
	Label      string
	WorkCenter string
	Team       string
	Records    []models.Record
}

// TeamLabel returns the tab label of a team subdivision.
func TeamLabel(workCenter, team string) string {
	if team == "" {
		return workCenter
	}
	return workCenter + " - " + team
}

// PartitionRecords groups rows by work center in first-seen order. Rows of
// TeamSplitWorkCenter are split by team, each team in first-seen order; when
// none of those rows carries a team they stay in a single group. Rows with no
// work center belong to no group and are counted in unassigned.
func PartitionRecords(records []models.Record) (groups []Group, unassigned int) {
	var workCenters []string
	byWorkCenter := make(map[string][]models.Record)

	var teams []string
	byTeam := make(map[string][]models.Record)
	var teamless []models.Record

	for _, rec := range records {
		wc := columns.WorkCenterOf(rec)
		if wc == "" {
			unassigned++
			continue
		}
		if _, seen := byWorkCenter[wc]; !seen {
			workCenters = append(workCenters, wc)
		}
		byWorkCenter[wc] = append(byWorkCenter[wc], rec)

		if wc != TeamSplitWorkCenter {
			continue
		}
		team := columns.TeamOf(rec)
		if team == "" {
			teamless = append(teamless, rec)
			continue
		}
		if _, seen := byTeam[team]; !seen {
			teams = append(teams, team)
		}
		byTeam[team] = append(byTeam[team], rec)
	}

	for _, wc := range workCenters {
		if wc != TeamSplitWorkCenter || len(teams) == 0 {
			groups = append(groups, Group{Label: wc, WorkCenter: wc, Records: byWorkCenter[wc]})
			continue
		}
		for _, team := range teams {
			groups = append(groups, Group{
				Label:      TeamLabel(wc, team),
				WorkCenter: wc,
				Team:       team,
				Records:    byTeam[team],
			})
		}
		if len(teamless) > 0 {
			groups = append(groups, Group{Label: wc, WorkCenter: wc, Records: teamless})
		}
	}
	return groups, unassigned
}
