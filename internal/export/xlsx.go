// Package export writes analyses to spreadsheet workbooks.
package export

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/impact-cli/internal/model"
)

// Sheet names, in workbook order.
const (
	SheetSummary     = "Summary"
	SheetSchools     = "Schools"
	SheetTraffic     = "Traffic"
	SheetTransit     = "Transit"
	SheetShadows     = "Shadows"
	SheetBottlenecks = "Bottlenecks"
)

const (
	moneyFormat   = "$#,##0"
	integerFormat = "#,##0"
	decimalFormat = "0.0"
)

// WriteXLSX writes resp as a workbook with one sheet per metric.
func WriteXLSX(w io.Writer, resp *model.BuildingAnalysisResponse) error {
	if resp == nil {
		return eris.New("export: nil analysis")
	}

	f := xlsx.NewFile()
	for _, build := range []struct {
		name string
		fill func(*xlsx.Sheet, *model.BuildingAnalysisResponse)
	}{
		{SheetSummary, summarySheet},
		{SheetSchools, schoolsSheet},
		{SheetTraffic, trafficSheet},
		{SheetTransit, transitSheet},
		{SheetShadows, shadowsSheet},
		{SheetBottlenecks, bottlenecksSheet},
	} {
		sheet, err := f.AddSheet(build.name)
		if err != nil {
			return eris.Wrapf(err, "export: add sheet %s", build.name)
		}
		build.fill(sheet, resp)
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write workbook")
	}
	return nil
}

func header(sheet *xlsx.Sheet, cols ...string) {
	row := sheet.AddRow()
	for _, c := range cols {
		cell := row.AddCell()
		cell.SetString(c)
		cell.GetStyle().Font.Bold = true
	}
}

// kv appends a label/value row. Values are typed so spreadsheet formulas
// keep working on the exported numbers.
func kv(sheet *xlsx.Sheet, label string, value any, format string) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	cell := row.AddCell()
	switch v := value.(type) {
	case string:
		cell.SetString(v)
	case int:
		cell.SetInt(v)
	case float64:
		if format != "" {
			cell.SetFloatWithFormat(v, format)
		} else {
			cell.SetFloat(v)
		}
	case bool:
		cell.SetBool(v)
	default:
		cell.SetValue(v)
	}
}

func summarySheet(sheet *xlsx.Sheet, r *model.BuildingAnalysisResponse) {
	header(sheet, "Metric", "Value")
	kv(sheet, "Building ID", r.BuildingID, "")
	kv(sheet, "Created", r.CreatedAt.UTC().Format("2006-01-02 15:04:05Z"), "")
	kv(sheet, "Latitude", r.Building.Location.Lat, "")
	kv(sheet, "Longitude", r.Building.Location.Lng, "")
	kv(sheet, "Type", string(r.Building.Type), "")
	kv(sheet, "Units", r.Building.Units, "")
	kv(sheet, "Stories", r.Building.Stories, "")
	kv(sheet, "Parking spaces", r.Building.ParkingSpaces, "")

	kv(sheet, "Zone", r.Zoning.Zone, "")
	kv(sheet, "Zoning compliant", r.Zoning.Compliant, "")
	kv(sheet, "Zoning violations", strings.Join(r.Zoning.Violations, "; "), "")

	kv(sheet, "Students generated", r.SchoolImpact.StudentsGenerated, decimalFormat)
	kv(sheet, "Daily trips", r.TrafficImpact.DailyTrips, "")
	kv(sheet, "AM peak trips", r.TrafficImpact.PeakTrips.AM, "")
	kv(sheet, "PM peak trips", r.TrafficImpact.PeakTrips.PM, "")
	kv(sheet, "Transit score", string(r.TransitAccess.TransitScore), "")
	kv(sheet, "Walk time (min)", r.TransitAccess.WalkTimeMinutes, decimalFormat)

	inf := r.Infrastructure
	kv(sheet, "Water demand (gpd)", inf.WaterDemand, integerFormat)
	kv(sheet, "Sewer demand (gpd)", inf.SewerDemand, integerFormat)
	kv(sheet, "Power demand (kW)", inf.PowerDemand, integerFormat)
	kv(sheet, "Infrastructure adequate", inf.InfrastructureAdequate, "")
	kv(sheet, "Upgrades needed", strings.Join(inf.UpgradesNeeded, "; "), "")
	kv(sheet, "Upgrade cost", inf.EstimatedCost, moneyFormat)

	e := r.EconomicImpact
	kv(sheet, "Annual tax revenue", e.AnnualTaxRevenue, moneyFormat)
	kv(sheet, "Infrastructure cost", e.InfrastructureCost, moneyFormat)
	kv(sheet, "Net impact year 1", e.NetImpactYear1, moneyFormat)
	kv(sheet, "Years to breakeven", e.YearsToBreakeven, decimalFormat)
	kv(sheet, "Construction jobs", e.ConstructionJobs, "")
	kv(sheet, "Permanent jobs", e.PermanentJobs, "")
	kv(sheet, "Affected parcels", r.ShadowAnalysis.TotalAffectedParcels, "")

	if r.AIReport != nil {
		kv(sheet, "Report source", string(r.AIReport.Source), "")
		kv(sheet, "Report", r.AIReport.AISummary, "")
	}
}

func schoolsSheet(sheet *xlsx.Sheet, r *model.BuildingAnalysisResponse) {
	header(sheet, "School", "Grade level", "Distance (m)", "Enrollment", "Capacity", "New students", "Capacity %")
	for _, s := range r.SchoolImpact.Schools {
		row := sheet.AddRow()
		row.AddCell().SetString(s.Name)
		row.AddCell().SetString(string(s.GradeLevel))
		row.AddCell().SetFloatWithFormat(s.Distance, integerFormat)
		row.AddCell().SetInt(s.Enrollment)
		row.AddCell().SetInt(s.Capacity)
		row.AddCell().SetFloatWithFormat(s.NewStudents, decimalFormat)
		row.AddCell().SetFloatWithFormat(s.CapacityPct, decimalFormat)
	}
}

func trafficSheet(sheet *xlsx.Sheet, r *model.BuildingAnalysisResponse) {
	header(sheet, "Intersection", "Distance (m)", "Current volume", "Added trips", "Projected volume", "Current LOS", "Projected LOS", "Severity")
	for _, in := range r.TrafficImpact.LOSImpacts {
		row := sheet.AddRow()
		row.AddCell().SetString(in.Name)
		row.AddCell().SetFloatWithFormat(in.Distance, integerFormat)
		row.AddCell().SetFloatWithFormat(in.CurrentVolume, integerFormat)
		row.AddCell().SetFloatWithFormat(in.AddedTrips, decimalFormat)
		row.AddCell().SetFloatWithFormat(in.ProjectedVolume, integerFormat)
		row.AddCell().SetString(string(in.CurrentLOS))
		row.AddCell().SetString(string(in.ProjectedLOS))
		row.AddCell().SetString(string(in.Severity))
	}
}

func transitSheet(sheet *xlsx.Sheet, r *model.BuildingAnalysisResponse) {
	header(sheet, "Station", "Line", "Distance (m)")
	for _, s := range r.TransitAccess.NearbyStations {
		row := sheet.AddRow()
		row.AddCell().SetString(s.Name)
		row.AddCell().SetString(s.Line)
		row.AddCell().SetFloatWithFormat(s.Distance, integerFormat)
	}
}

func shadowsSheet(sheet *xlsx.Sheet, r *model.BuildingAnalysisResponse) {
	header(sheet, "Time", "Azimuth", "Altitude", "Shadow length (ft)", "Shadow area (sqft)", "Affected parcels")
	for _, s := range r.ShadowAnalysis.ShadowsByTime {
		row := sheet.AddRow()
		row.AddCell().SetString(s.Time)
		row.AddCell().SetFloat(s.Azimuth)
		row.AddCell().SetFloat(s.Altitude)
		row.AddCell().SetFloatWithFormat(s.ShadowLengthFt, decimalFormat)
		row.AddCell().SetFloatWithFormat(s.ShadowAreaSqft, integerFormat)
		row.AddCell().SetInt(s.AffectedParcels)
	}
}

func bottlenecksSheet(sheet *xlsx.Sheet, r *model.BuildingAnalysisResponse) {
	header(sheet, "Type", "Severity", "Message")
	for _, b := range r.Bottlenecks {
		row := sheet.AddRow()
		row.AddCell().SetString(string(b.Type))
		row.AddCell().SetString(string(b.Severity))
		row.AddCell().SetString(b.Message)
	}
}
