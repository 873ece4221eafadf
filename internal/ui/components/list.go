package components

// List is a cursor over n rows with a scrolling window of PageSize rows.
type List struct {
	Len      int
	Cursor   int
	Offset   int
	PageSize int
}

// NewList creates a list with the given page size.
func NewList(pageSize int) *List {
	if pageSize < 1 {
		pageSize = 1
	}
	return &List{PageSize: pageSize}
}

// Reset sets the row count and moves the cursor to the top.
func (l *List) Reset(n int) {
	l.Len = n
	l.Cursor = 0
	l.Offset = 0
}

// Resize sets the row count and keeps the cursor when it is still in range.
func (l *List) Resize(n int) {
	l.Len = n
	if l.Cursor >= n {
		l.Cursor = n - 1
	}
	if l.Cursor < 0 {
		l.Cursor = 0
	}
	l.clampOffset()
}

// Down moves the cursor down one row.
func (l *List) Down() {
	if l.Cursor < l.Len-1 {
		l.Cursor++
		l.clampOffset()
	}
}

// Up moves the cursor up one row.
func (l *List) Up() {
	if l.Cursor > 0 {
		l.Cursor--
		l.clampOffset()
	}
}

// Window returns the [start, end) row range currently on screen.
func (l *List) Window() (int, int) {
	end := l.Offset + l.PageSize
	if end > l.Len {
		end = l.Len
	}
	return l.Offset, end
}

func (l *List) clampOffset() {
	if l.Cursor < l.Offset {
		l.Offset = l.Cursor
	}
	if l.Cursor >= l.Offset+l.PageSize {
		l.Offset = l.Cursor - l.PageSize + 1
	}
	if l.Offset < 0 {
		l.Offset = 0
	}
}
