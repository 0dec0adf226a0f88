package spreadsheet

import "strconv"

// normalizeHeader names blank header cells "Unnamed: <index>" and suffixes
// repeated names with ".1", ".2", ... so that every column is addressable.
func normalizeHeader(cells []string) []string {
	out := make([]string, len(cells))
	seen := make(map[string]int, len(cells))
	for i, c := range cells {
		name := trimSpaces(c)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			candidate := name + "." + strconv.Itoa(n+1)
			for {
				if _, taken := seen[candidate]; !taken {
					break
				}
				seen[name]++
				candidate = name + "." + strconv.Itoa(seen[name])
			}
			name = candidate
		}
		seen[name] = 0
		out[i] = name
	}
	return out
}
