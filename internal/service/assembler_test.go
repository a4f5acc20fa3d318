package service

import (
	"math"
	"testing"

	"oversound/pkg/oversound"

	"github.com/stretchr/testify/assert"
)

func songWithOrder(id int, order oversound.NullInt) oversound.SongWithArtist {
	return oversound.SongWithArtist{Song: oversound.Song{ID: id, AlbumOrder: order}}
}

func TestSortByAlbumOrder(t *testing.T) {
	tests := []struct {
		name  string
		songs []oversound.SongWithArtist
		want  []int
	}{
		{
			name:  "unordered last, stable",
			songs: []oversound.SongWithArtist{songWithOrder(1, oversound.NullInt{}), songWithOrder(2, oversound.Int(2)), songWithOrder(3, oversound.NullInt{}), songWithOrder(4, oversound.Int(1))},
			want:  []int{4, 2, 1, 3},
		},
		{
			name:  "extreme values",
			songs: []oversound.SongWithArtist{songWithOrder(1, oversound.Int(math.MaxInt)), songWithOrder(2, oversound.Int(-2)), songWithOrder(3, oversound.Int(math.MinInt))},
			want:  []int{3, 2, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SortByAlbumOrder(tt.songs)
			var got []int
			for _, s := range tt.songs {
				got = append(got, s.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
