package award

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pfrederiksen/palmares/internal/participant"
)

type pOpt func(*participant.Participant)

func newP(name string, rank int, points float64, opts ...pOpt) *participant.Participant {
	p := &participant.Participant{
		ID:           participant.GenerateID("", rank),
		Name:         name,
		Rank:         rank,
		Points:       participant.Some(points),
		CategoryCode: "sen",
		Gender:       participant.Male,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func withTournament(id string) pOpt {
	return func(p *participant.Participant) {
		p.TournamentID = id
		p.ID = participant.GenerateID(id, p.Rank)
	}
}
func withCategory(c string) pOpt { return func(p *participant.Participant) { p.CategoryCode = c } }
func female() pOpt { return func(p *participant.Participant) { p.Gender = participant.Female } }
func withRating(r float64) pOpt { return func(p *participant.Participant) { p.Rating = participant.Some(r) } }
func withBuchholz(b float64) pOpt { return func(p *participant.Participant) { p.Buchholz = participant.Some(b) } }
func noPoints() pOpt { return func(p *participant.Participant) { p.Points = participant.None() } }
func unratedJunior() pOpt { return func(p *participant.Participant) { p.IsUnratedJunior = true } }
func unratedSenior() pOpt { return func(p *participant.Participant) { p.IsUnratedSenior = true } }

func best(title string) Block {
	return Block{Title: title, Mode: ModeBest, Gender: GenderAny, Unrated: UnratedNone}
}

func rangeBlock(title string, start, end int) Block {
	return Block{Title: title, Mode: ModeRange, Start: start, End: end, Gender: GenderAny, Unrated: UnratedNone}
}

// winners returns the winner names of the assignments, "" for empty slots.
func winners(as []Assignment) []string {
	out := make([]string, len(as))
	for i, a := range as {
		if a.Winner != nil {
			out[i] = a.Winner.Name
		}
	}
	return out
}

func labels(as []Assignment) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.SlotLabel
	}
	return out
}

func TestResolve_TieBrokenByRank(t *testing.T) {
	players := []*participant.Participant{
		newP("Z", 3, 5),
		newP("Y", 2, 6),
		newP("X", 1, 6),
	}

	got := Resolve(players, []Block{rangeBlock("Podium", 1, 2)}, nil)

	if diff := cmp.Diff([]string{"X", "Y"}, winners(got)); diff != "" {
		t.Errorf("winners mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Place 1", "Place 2"}, labels(got)); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_Ranking(t *testing.T) {
	tests := []struct {
		name    string
		players []*participant.Participant
		want    []string
	}{
		{
			name: "points descending",
			players: []*participant.Participant{
				newP("A", 1, 3), newP("B", 2, 5), newP("C", 3, 4),
			},
			want: []string{"B", "C", "A"},
		},
		{
			name: "buchholz breaks points tie",
			players: []*participant.Participant{
				newP("A", 1, 5, withBuchholz(20)), newP("B", 2, 5, withBuchholz(22)), newP("C", 3, 5, withBuchholz(21)),
			},
			want: []string{"B", "C", "A"},
		},
		{
			name: "absent points rank last",
			players: []*participant.Participant{
				newP("A", 1, 0, noPoints()), newP("B", 2, 0), newP("C", 3, -1),
			},
			want: []string{"B", "C", "A"},
		},
		{
			name: "NaN points rank like absent",
			players: []*participant.Participant{
				newP("A", 1, math.NaN()), newP("B", 2, 1),
				newP("C", 3, 0, noPoints()),
			},
			want: []string{"B", "A", "C"},
		},
		{
			name: "absent rating loses rating tiebreak",
			players: []*participant.Participant{
				newP("A", 1, 5), newP("B", 2, 5, withRating(1200)),
			},
			want: []string{"B", "A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.players, []Block{rangeBlock("All", 1, len(tt.players))}, nil)
			if diff := cmp.Diff(tt.want, winners(got)); diff != "" {
				t.Errorf("winners mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolve_RangeSlicing(t *testing.T) {
	players := []*participant.Participant{
		newP("P1", 1, 9), newP("P2", 2, 8), newP("P3", 3, 7), newP("P4", 4, 6), newP("P5", 5, 5),
	}

	tests := []struct {
		name       string
		block      Block
		wantNames  []string
		wantLabels []string
		wantPos    []int
	}{
		{
			name:       "start 2 end 4",
			block:      rangeBlock("Mid", 2, 4),
			wantNames:  []string{"P2", "P3", "P4"},
			wantLabels: []string{"Place 2", "Place 3", "Place 4"},
			wantPos:    []int{2, 3, 4},
		},
		{
			name:       "reversed bounds are swapped",
			block:      rangeBlock("Mid", 4, 2),
			wantNames:  []string{"P2", "P3", "P4"},
			wantLabels: []string{"Place 2", "Place 3", "Place 4"},
			wantPos:    []int{2, 3, 4},
		},
		{
			name:       "range beyond candidates yields empty slots",
			block:      rangeBlock("Tail", 4, 7),
			wantNames:  []string{"P4", "P5", "", ""},
			wantLabels: []string{"Place 4", "Place 5", "Place 6", "Place 7"},
			wantPos:    []int{4, 5, 6, 7},
		},
		{
			name: "prize labels used before defaults",
			block: func() Block {
				b := rangeBlock("Podium", 1, 3)
				b.PrizeLabels = []string{"Gold", "Silver"}
				return b
			}(),
			wantNames:  []string{"P1", "P2", "P3"},
			wantLabels: []string{"Gold", "Silver", "Place 3"},
			wantPos:    []int{1, 2, 3},
		},
		{
			name:       "non-positive bounds clamp to 1",
			block:      rangeBlock("Clamp", 0, -3),
			wantNames:  []string{"P1"},
			wantLabels: []string{"Place 1"},
			wantPos:    []int{1},
		},
		{
			name:       "best without labels",
			block:      best("Top"),
			wantNames:  []string{"P1"},
			wantLabels: []string{"Prix"},
			wantPos:    []int{1},
		},
		{
			name: "best ignores start and end",
			block: func() Block {
				b := best("Top")
				b.Start, b.End = 3, 5
				b.PrizeLabels = []string{"Trophy", "unused"}
				return b
			}(),
			wantNames:  []string{"P1"},
			wantLabels: []string{"Trophy"},
			wantPos:    []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(players, []Block{tt.block}, nil)

			if diff := cmp.Diff(tt.wantNames, winners(got)); diff != "" {
				t.Errorf("winners mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantLabels, labels(got)); diff != "" {
				t.Errorf("labels mismatch (-want +got):\n%s", diff)
			}
			pos := make([]int, len(got))
			for i, a := range got {
				pos[i] = a.Position
			}
			if diff := cmp.Diff(tt.wantPos, pos); diff != "" {
				t.Errorf("positions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolve_Filters(t *testing.T) {
	players := []*participant.Participant{
		newP("SenM", 1, 7, withRating(1800)),
		newP("SenF", 2, 6, female(), withRating(1500)),
		newP("PouF", 3, 5, female(), withCategory("pou"), unratedJunior(), withRating(1299)),
		newP("PouM", 4, 4, withCategory("pou"), withRating(1100)),
		newP("Adult", 5, 3, unratedSenior(), withRating(1399)),
		newP("NoElo", 6, 2),
	}

	tests := []struct {
		name  string
		block func(b *Block)
		want  []string
	}{
		{
			name:  "no filters",
			block: func(b *Block) {},
			want:  []string{"SenM", "SenF", "PouF", "PouM", "Adult", "NoElo"},
		},
		{
			name:  "category",
			block: func(b *Block) { b.Categories = []string{"pou"} },
			want:  []string{"PouF", "PouM", "", "", "", ""},
		},
		{
			name:  "category is case-insensitive",
			block: func(b *Block) { b.Categories = []string{"POU"} },
			want:  []string{"PouF", "PouM", "", "", "", ""},
		},
		{
			name:  "female",
			block: func(b *Block) { b.Gender = GenderFemale },
			want:  []string{"SenF", "PouF", "", "", "", ""},
		},
		{
			name:  "male",
			block: func(b *Block) { b.Gender = GenderMale },
			want:  []string{"SenM", "PouM", "Adult", "NoElo", "", ""},
		},
		{
			name:  "either unrated",
			block: func(b *Block) { b.Unrated = UnratedEither },
			want:  []string{"PouF", "Adult", "", "", "", ""},
		},
		{
			name:  "adult unrated",
			block: func(b *Block) { b.Unrated = UnratedAdultOnly },
			want:  []string{"Adult", "", "", "", "", ""},
		},
		{
			name:  "junior unrated",
			block: func(b *Block) { b.Unrated = UnratedJuniorOnly },
			want:  []string{"PouF", "", "", "", "", ""},
		},
		{
			name:  "rating min drops absent rating",
			block: func(b *Block) { b.RatingMin = participant.Some(0) },
			want:  []string{"SenM", "SenF", "PouF", "PouM", "Adult", ""},
		},
		{
			name: "rating bounds inclusive",
			block: func(b *Block) {
				b.RatingMin = participant.Some(1299)
				b.RatingMax = participant.Some(1500)
			},
			want: []string{"SenF", "PouF", "Adult", "", "", ""},
		},
		{
			name:  "rating max alone drops absent rating",
			block: func(b *Block) { b.RatingMax = participant.Some(5000) },
			want:  []string{"SenM", "SenF", "PouF", "PouM", "Adult", ""},
		},
		{
			name: "filter conjunction",
			block: func(b *Block) {
				b.Categories = []string{"pou"}
				b.Gender = GenderFemale
				b.Unrated = UnratedJuniorOnly
				b.RatingMax = participant.Some(1300)
			},
			want: []string{"PouF", "", "", "", "", ""},
		},
		{
			name:  "no senior candidates",
			block: func(b *Block) { b.Categories = []string{"vet"} },
			want:  []string{"", "", "", "", "", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := rangeBlock(tt.name, 1, len(players))
			tt.block(&b)

			got := Resolve(players, []Block{b}, nil)
			if diff := cmp.Diff(tt.want, winners(got)); diff != "" {
				t.Errorf("winners mismatch (-want +got):\n%s", diff)
			}
			for _, a := range got {
				if a.Winner != nil && !b.Admits(a.Winner) {
					t.Errorf("winner %s does not satisfy block filters", a.Winner.Name)
				}
			}
		})
	}
}

func TestResolve_CategoryWithoutCandidates(t *testing.T) {
	players := []*participant.Participant{
		newP("A", 1, 5, withCategory("pou")),
		newP("B", 2, 4, withCategory("ben")),
	}
	b := rangeBlock("Seniors", 1, 3)
	b.Categories = []string{"sen"}

	got := Resolve(players, []Block{b}, nil)

	if len(got) != 3 {
		t.Fatalf("got %d assignments, want 3", len(got))
	}
	for _, a := range got {
		if a.Winner != nil {
			t.Errorf("slot %s: winner = %s, want none", a.SlotLabel, a.Winner.Name)
		}
	}
}

func TestResolve_Exclusion(t *testing.T) {
	const trn = "t1"
	players := []*participant.Participant{
		newP("Alice", 1, 7, withTournament(trn), female()),
		newP("Bob", 2, 6, withTournament(trn)),
		newP("Carol", 3, 5, withTournament(trn), female()),
	}
	scoped := func(b Block) Block {
		b.TournamentScope = trn
		return b
	}

	t.Run("exclusive picks next eligible", func(t *testing.T) {
		blocks := []Block{scoped(best("General")), scoped(best("Best woman"))}
		blocks[1].Gender = GenderFemale

		got := Resolve(players, blocks, Policy{trn: false})
		if diff := cmp.Diff([]string{"Alice", "Carol"}, winners(got)); diff != "" {
			t.Errorf("winners mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("multiple winners by default", func(t *testing.T) {
		blocks := []Block{scoped(best("General")), scoped(best("Best woman"))}
		blocks[1].Gender = GenderFemale

		got := Resolve(players, blocks, nil)
		if diff := cmp.Diff([]string{"Alice", "Alice"}, winners(got)); diff != "" {
			t.Errorf("winners mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("explicit true allows multiple winners", func(t *testing.T) {
		blocks := []Block{scoped(best("A")), scoped(best("B"))}

		got := Resolve(players, blocks, Policy{trn: true})
		if diff := cmp.Diff([]string{"Alice", "Alice"}, winners(got)); diff != "" {
			t.Errorf("winners mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("earlier slots of later blocks shift", func(t *testing.T) {
		blocks := []Block{scoped(best("A")), scoped(rangeBlock("B", 1, 3))}

		got := Resolve(players, blocks, Policy{trn: false})
		if diff := cmp.Diff([]string{"Alice", "Bob", "Carol", ""}, winners(got)); diff != "" {
			t.Errorf("winners mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("exclusion does not reach earlier blocks", func(t *testing.T) {
		blocks := []Block{scoped(rangeBlock("Podium", 1, 2)), scoped(best("Top"))}

		got := Resolve(players, blocks, Policy{trn: false})
		if diff := cmp.Diff([]string{"Alice", "Bob", "Carol"}, winners(got)); diff != "" {
			t.Errorf("winners mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestResolve_ExclusionIsPerScope(t *testing.T) {
	players := []*participant.Participant{
		newP("Alice", 1, 7, withTournament("t1")),
		newP("Bob", 2, 6, withTournament("t1")),
		newP("Alice", 1, 8, withTournament("t2")),
		newP("Dan", 2, 5, withTournament("t2")),
	}
	blocks := []Block{
		{Title: "T1 first", Mode: ModeBest, TournamentScope: "t1"},
		{Title: "T2 first", Mode: ModeBest, TournamentScope: "t2"},
		{Title: "T1 second", Mode: ModeBest, TournamentScope: "t1"},
		{Title: "T2 second", Mode: ModeBest, TournamentScope: "t2"},
	}

	got := Resolve(players, blocks, Policy{"t1": false, "t2": false})

	if diff := cmp.Diff([]string{"Alice", "Alice", "Bob", "Dan"}, winners(got)); diff != "" {
		t.Errorf("winners mismatch (-want +got):\n%s", diff)
	}
	for _, a := range got {
		if a.Winner != nil && a.Winner.TournamentID != a.TournamentID {
			t.Errorf("%s: winner from %s, want %s", a.BlockTitle, a.Winner.TournamentID, a.TournamentID)
		}
	}
}

func TestResolve_SameNameWithinBlock(t *testing.T) {
	players := []*participant.Participant{
		newP("Martin", 1, 7),
		newP("Martin", 2, 6),
		newP("Petit", 3, 5),
	}
	blocks := []Block{rangeBlock("Podium", 1, 2)}

	t.Run("name key excludes the namesake", func(t *testing.T) {
		got := Resolve(players, blocks, Policy{"": false})
		if diff := cmp.Diff([]string{"Martin", "Petit"}, winners(got)); diff != "" {
			t.Errorf("winners mismatch (-want +got):\n%s", diff)
		}
		if got[0].Winner.Rank != 1 {
			t.Errorf("first slot winner rank = %d, want 1", got[0].Winner.Rank)
		}
	})

	t.Run("id key keeps both", func(t *testing.T) {
		got := Resolve(players, blocks, Policy{"": false}, WithDedupKey(DedupByID))
		if diff := cmp.Diff([]string{"Martin", "Martin"}, winners(got)); diff != "" {
			t.Errorf("winners mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestResolve_ScopeFilter(t *testing.T) {
	players := []*participant.Participant{
		newP("A", 1, 9, withTournament("t1")),
		newP("B", 1, 8, withTournament("t2")),
	}
	blocks := []Block{
		{Title: "t2", Mode: ModeBest, TournamentScope: "t2"},
		{Title: "all", Mode: ModeBest, TournamentScope: AllTournaments},
		{Title: "unknown", Mode: ModeBest, TournamentScope: "t9"},
	}

	got := Resolve(players, blocks, nil)

	if diff := cmp.Diff([]string{"B", "A", ""}, winners(got)); diff != "" {
		t.Errorf("winners mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"t2", "", "t9"}, []string{got[0].TournamentID, got[1].TournamentID, got[2].TournamentID}); diff != "" {
		t.Errorf("tournament ids mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_OrderAndDeterminism(t *testing.T) {
	players := []*participant.Participant{
		newP("A", 1, 9), newP("B", 2, 8), newP("C", 3, 7), newP("D", 4, 6),
	}
	reversed := []*participant.Participant{players[3], players[2], players[1], players[0]}
	blocks := []Block{rangeBlock("R", 2, 3), best("B1"), rangeBlock("R2", 1, 2)}

	first := Resolve(players, blocks, Policy{"": false})
	again := Resolve(players, blocks, Policy{"": false})
	shuffled := Resolve(reversed, blocks, Policy{"": false})

	if diff := cmp.Diff(first, again); diff != "" {
		t.Errorf("repeated resolution differs (-first +again):\n%s", diff)
	}
	if diff := cmp.Diff(winners(first), winners(shuffled)); diff != "" {
		t.Errorf("input order changed winners (-sorted +reversed):\n%s", diff)
	}

	wantBlocks := []int{0, 0, 1, 2, 2}
	gotBlocks := make([]int, len(first))
	for i, a := range first {
		gotBlocks[i] = a.BlockIndex
	}
	if diff := cmp.Diff(wantBlocks, gotBlocks); diff != "" {
		t.Errorf("block order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"B", "C", "A", "D", ""}, winners(first)); diff != "" {
		t.Errorf("winners mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_EmptyInputs(t *testing.T) {
	if got := Resolve(nil, nil, nil); len(got) != 0 {
		t.Errorf("Resolve(nil, nil) returned %d assignments", len(got))
	}

	got := Resolve(nil, []Block{rangeBlock("R", 1, 2)}, nil)
	if diff := cmp.Diff([]string{"", ""}, winners(got)); diff != "" {
		t.Errorf("winners mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_DoesNotReorderInput(t *testing.T) {
	players := []*participant.Participant{newP("B", 2, 1), newP("A", 1, 9)}

	Resolve(players, []Block{best("Top")}, nil)

	if players[0].Name != "B" || players[1].Name != "A" {
		t.Error("Resolve reordered the caller's participant slice")
	}
}

func TestResolveParallel_MatchesResolve(t *testing.T) {
	var players []*participant.Participant
	for _, trn := range []string{"t1", "t2", "t3"} {
		for r := 1; r <= 6; r++ {
			players = append(players, newP(string(rune('A'+r))+trn, r, float64(10-r), withTournament(trn)))
		}
	}
	// Shared name across tournaments
	players = append(players, newP("Bt1", 7, 20, withTournament("t2")))

	var blocks []Block
	for _, trn := range []string{"t1", "t2", "t3", "t1", "t2"} {
		b := rangeBlock("R "+trn, 1, 3)
		b.TournamentScope = trn
		blocks = append(blocks, b, Block{Title: "B " + trn, Mode: ModeBest, TournamentScope: trn})
	}
	blocks = append(blocks, best("Overall"))
	policy := Policy{"t1": false, "t2": false}

	want := Resolve(players, blocks, policy)
	got, err := ResolveParallel(context.Background(), players, blocks, policy)
	if err != nil {
		t.Fatalf("ResolveParallel() error = %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ResolveParallel differs from Resolve (-want +got):\n%s", diff)
	}
}

func TestResolveParallel_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ResolveParallel(ctx, []*participant.Participant{newP("A", 1, 1)}, []Block{best("Top")}, nil)
	if err == nil {
		t.Error("ResolveParallel() expected error for canceled context, got nil")
	}
}

func TestGroupByTournament(t *testing.T) {
	players := []*participant.Participant{
		newP("A", 1, 9, withTournament("t1")),
		newP("B", 1, 8, withTournament("t2")),
	}
	blocks := []Block{
		{Title: "t2 top", Mode: ModeBest, TournamentScope: "t2"},
		{Title: "t1 podium", Mode: ModeRange, Start: 1, End: 2, TournamentScope: "t1"},
		{Title: "t2 again", Mode: ModeBest, TournamentScope: "t2"},
	}

	groups := GroupByTournament(Resolve(players, blocks, nil))

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].TournamentID != "t2" || groups[1].TournamentID != "t1" {
		t.Errorf("group order = %s, %s; want t2, t1", groups[0].TournamentID, groups[1].TournamentID)
	}

	var titles []string
	for _, b := range groups[0].Blocks {
		titles = append(titles, b.Title)
	}
	if diff := cmp.Diff([]string{"t2 top", "t2 again"}, titles); diff != "" {
		t.Errorf("t2 blocks mismatch (-want +got):\n%s", diff)
	}
	if n := len(groups[1].Blocks[0].Slots); n != 2 {
		t.Errorf("t1 podium has %d slots, want 2", n)
	}
}
