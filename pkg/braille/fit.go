package braille

// Fit picks the largest grid within budgetCols x budgetRows that keeps the source
// aspect ratio. One cell is 2x4 dots and a terminal cell is about twice as tall as it
// is wide, so dots are treated as square.
//
// A source that already fits the budget is drawn at its own size.
func Fit(srcW, srcH, budgetCols, budgetRows int) Grid {
	if srcW <= 0 || srcH <= 0 || budgetCols <= 0 || budgetRows <= 0 {
		return Grid{}
	}

	pxW, pxH := Grid{budgetCols, budgetRows}.Pixels()

	var w, h int
	switch {
	case srcW <= pxW && srcH <= pxH:
		w, h = srcW, srcH
	case srcW*pxH > srcH*pxW:
		// wider than the budget, width limited
		w = pxW
		h = min(ceilDiv(pxW*srcH, srcW), pxH)
	default:
		h = pxH
		w = min(ceilDiv(pxH*srcW, srcH), pxW)
	}

	return Grid{
		Cols: clamp(ceilDiv(w, 2), 1, budgetCols),
		Rows: clamp(ceilDiv(h, 4), 1, budgetRows),
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
