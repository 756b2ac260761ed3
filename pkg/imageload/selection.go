package imageload

// Selection is the in-progress image list of one capture session.
// Removal handles are positional: removing index i shifts every later image down.
type Selection struct {
	images []string
}

// Add appends data URIs.
func (s *Selection) Add(uris ...string) {
	s.images = append(s.images, uris...)
}

// Remove drops the image at index. Out-of-range indices are ignored.
func (s *Selection) Remove(index int) bool {
	if index < 0 || index >= len(s.images) {
		return false
	}
	s.images = append(s.images[:index], s.images[index+1:]...)
	return true
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.images = nil
}

// Len returns the number of selected images.
func (s *Selection) Len() int {
	return len(s.images)
}

// Images returns a copy of the selection in display order.
func (s *Selection) Images() []string {
	out := make([]string, len(s.images))
	copy(out, s.images)
	return out
}

// Clone returns an independent copy.
func (s *Selection) Clone() Selection {
	return Selection{images: s.Images()}
}
