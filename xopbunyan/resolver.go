package xopbunyan

import (
	"github.com/xoplog/xopbunyan-go/xopfields"
)

// maxDepth bounds the walk up the span tree.  Real trees are tens of
// spans deep; a longer chain means the host created a parent loop.
const maxDepth = 1024

// resolve returns the fields of n merged with those of every ancestor
// that is still open.  A parent that is unknown, or already closed,
// ends the chain.
func (l *Logger) resolve(n *spanNode) *xopfields.Snapshot {
	var chainBuf [16]*spanNode
	chain := append(chainBuf[:0], n)
	for p := n; !p.parent.IsZero(); {
		p = l.lookup(p.parent)
		if p == nil {
			break
		}
		if len(chain) == maxDepth || p == n {
			l.violation(AncestorLoop, n.id)
			break
		}
		chain = append(chain, p)
	}
	var inherited *xopfields.Snapshot
	for i := len(chain) - 1; i >= 0; i-- {
		inherited = l.mergeOne(chain[i], inherited)
	}
	return inherited
}

func (l *Logger) mergeOne(n *spanNode, inherited *xopfields.Snapshot) *xopfields.Snapshot {
	own := n.fields.Snapshot()
	if !l.mergeCache {
		return xopfields.Merge(inherited, own)
	}
	if c := n.merged.Load(); c != nil && c.inherited == inherited && c.own == own {
		return c.merged
	}
	merged := xopfields.Merge(inherited, own)
	n.merged.Store(&mergedFields{
		inherited: inherited,
		own:       own,
		merged:    merged,
	})
	return merged
}
