package session

import "github.com/sahilm/fuzzy"

// Search fuzzy-matches stored session ids against a query and returns the
// matching sessions best-first. An empty query returns everything.
func (p *Persistence) Search(query string) ([]Info, error) {
	infos, err := p.List()
	if err != nil {
		return nil, err
	}
	if query == "" {
		return infos, nil
	}

	ids := make([]string, len(infos))
	for i, info := range infos {
		ids[i] = info.ID
	}

	matches := fuzzy.Find(query, ids)
	out := make([]Info, 0, len(matches))
	for _, m := range matches {
		out = append(out, infos[m.Index])
	}
	return out, nil
}
