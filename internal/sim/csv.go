package sim

import (
	"encoding/csv"
	"os"
	"strconv"
)

// WriteRecordsCSV writes the full per-hour trace for charting and export.
func WriteRecordsCSV(path string, records []HourRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"hour",
		"solar_mw",
		"target_mw",
		"gen_mw",
		"battery_mw",
		"soc",
		"delivered_mw",
		"deficit_mw",
		"solar_to_load_mwh",
		"solar_to_battery_mwh",
		"solar_wasted_mwh",
		"gen_to_load_mwh",
		"gen_to_battery_mwh",
		"battery_mode",
		"gen_mode",
		"cause",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Hour),
			fmtFloat(r.SolarMW),
			fmtFloat(r.TargetMW),
			fmtFloat(r.GenMW),
			fmtFloat(r.BatteryMW),
			fmtFloat(r.SOC),
			fmtFloat(r.DeliveredMW),
			fmtFloat(r.DeficitMW),
			fmtFloat(r.SolarToLoadMWh),
			fmtFloat(r.SolarToBatteryMWh),
			fmtFloat(r.SolarWastedMWh),
			fmtFloat(r.GenToLoadMWh),
			fmtFloat(r.GenToBatteryMWh),
			string(r.BatteryMode),
			string(r.GenMode),
			r.Cause,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
