package classify

import "github.com/joshuapare/heapkit/internal/format"

// Trim finds the length of the used prefix of classes. The trailing run of
// never-used slots is recognised by shape: the last slot is Unused with a zero
// link, and each Unused predecessor links to the offset of its successor.
// Any Unused slot left inside the prefix fails with *UnusedError.
func Trim(classes []Class, l format.Layout) (int, error) {
	used := len(classes)
	if used > 0 && isUnused(classes[used-1], 0) {
		used--
		for used > 0 && isUnused(classes[used-1], uint16(l.SlotOffset(used))) {
			used--
		}
	}

	for i := range used {
		if classes[i].Kind == KindUnused {
			return 0, &UnusedError{Index: i, Next: classes[i].Next, Used: used}
		}
	}
	return used, nil
}

func isUnused(c Class, next uint16) bool {
	return c.Kind == KindUnused && c.Next == next
}
