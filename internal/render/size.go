package render

import "fmt"

// HumanSizeBase10 formats v with SI prefixes in a fixed seven-column field,
// e.g. "  2.0 K" or "950    ". Append the unit, as in HumanSizeBase10(n)+"B".
func HumanSizeBase10(v float64) string {
	if v < 1000 {
		return fmt.Sprintf("%3.0f    ", v)
	}
	for _, prefix := range []string{"K", "M", "G"} {
		v /= 1000
		if v < 1000 {
			return fmt.Sprintf("%5.1f %s", v, prefix)
		}
	}
	return fmt.Sprintf("%5.1f T", v/1000)
}

// percent is used/total as a percentage. An empty total reads as 0%.
func percent(used, total float64) float64 {
	if total == 0 {
		return 0
	}
	return used * 100 / total
}
