package catalog

// WindowItem is one entry in a compact page list: a page number or a gap.
type WindowItem struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// Window lists the page controls to show: the first and last page, the pages
// within one of current, and one ellipsis for each gap of two or more hidden
// pages. A gap of exactly one page shows that page instead.
func Window(current, total int) []WindowItem {
	if total <= 0 {
		return nil
	}
	current = clampPage(current, total)

	keep := map[int]bool{1: true, total: true}
	for p := current - 1; p <= current+1; p++ {
		if p >= 1 && p <= total {
			keep[p] = true
		}
	}

	var out []WindowItem
	last := 0
	for p := 1; p <= total; p++ {
		if !keep[p] {
			continue
		}
		switch gap := p - last - 1; {
		case gap == 1:
			out = append(out, WindowItem{Page: p - 1})
		case gap > 1:
			out = append(out, WindowItem{Ellipsis: true})
		}
		out = append(out, WindowItem{Page: p})
		last = p
	}
	return out
}
