package trafficstats

import "fmt"

func FormatRate(bytesPerSecond uint64) string {
	return formatBinary(float64(bytesPerSecond), "/s")
}

func FormatTotal(bytes uint64) string {
	return formatBinary(float64(bytes), "")
}

func formatBinary(value float64, suffix string) string {
	const base = 1024.0
	units := []string{"B", "KiB", "MiB", "GiB"}

	unitIdx := 0
	for value >= base && unitIdx < len(units)-1 {
		value /= base
		unitIdx++
	}

	if unitIdx == 0 {
		return fmt.Sprintf("%.0f %s%s", value, units[unitIdx], suffix)
	}
	return fmt.Sprintf("%.1f %s%s", value, units[unitIdx], suffix)
}
