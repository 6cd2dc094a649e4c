package core

import (
	"errors"
	"testing"
)

func TestValidateChunkParams(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		wantErr error
	}{
		{name: "valid", size: 512, overlap: 50, wantErr: nil},
		{name: "valid zero overlap", size: 100, overlap: 0, wantErr: nil},
		{name: "valid minimum size", size: MinChunkSize, overlap: 0, wantErr: nil},
		{name: "valid maximum size", size: MaxChunkSize, overlap: 500, wantErr: nil},
		{name: "size too small", size: 49, overlap: 0, wantErr: ErrChunkSizeRange},
		{name: "size too large", size: 4097, overlap: 0, wantErr: ErrChunkSizeRange},
		{name: "overlap equals size", size: 100, overlap: 100, wantErr: ErrOverlapRange},
		{name: "overlap exceeds size", size: 100, overlap: 150, wantErr: ErrOverlapRange},
		{name: "negative overlap", size: 100, overlap: -1, wantErr: ErrOverlapRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunkParams(tt.size, tt.overlap)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunkParams(%d, %d) = %v, want nil", tt.size, tt.overlap, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunkParams(%d, %d) = %v, want %v", tt.size, tt.overlap, err, tt.wantErr)
			}
		})
	}
}

func TestValidateText(t *testing.T) {
	if err := ValidateText("hello"); err != nil {
		t.Errorf("ValidateText(hello) = %v, want nil", err)
	}
	if err := ValidateText(""); !errors.Is(err, ErrEmptyText) {
		t.Errorf("ValidateText(empty) = %v, want ErrEmptyText", err)
	}
	if err := ValidateText("  \n\t "); !errors.Is(err, ErrEmptyText) {
		t.Errorf("ValidateText(whitespace) = %v, want ErrEmptyText", err)
	}
}

func TestValidateChunkedDocument(t *testing.T) {
	doc := &ChunkedDocument{
		DocumentID: "d1",
		Chunks: []TextChunk{
			{ID: "d1_chunk_0", ChunkIndex: 0},
			{ID: "d1_chunk_1", ChunkIndex: 1},
			{ID: "d1_chunk_2", ChunkIndex: 2},
		},
		TotalChunks: 3,
	}
	if err := ValidateChunkedDocument(doc); err != nil {
		t.Errorf("valid document: %v", err)
	}

	doc.TotalChunks = 4
	if err := ValidateChunkedDocument(doc); !errors.Is(err, ErrIndexGap) {
		t.Errorf("count mismatch: got %v, want ErrIndexGap", err)
	}

	doc.TotalChunks = 3
	doc.Chunks[1].ChunkIndex = 5
	if err := ValidateChunkedDocument(doc); !errors.Is(err, ErrIndexGap) {
		t.Errorf("index gap: got %v, want ErrIndexGap", err)
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    ChunkingStrategy
		wantErr bool
	}{
		{in: "sentence", want: StrategySentence},
		{in: "semantic", want: StrategySemantic},
		{in: "token", want: StrategyToken},
		{in: "fixed", want: StrategyRecursive},
		{in: "recursive", want: StrategyRecursive},
		{in: "markdown", want: StrategyMarkdown},
		{in: "hierarchical", want: StrategyHierarchical},
		{in: "paragraph", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownStrategy) {
				t.Errorf("ParseStrategy(%q) err = %v, want ErrUnknownStrategy", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseStrategy(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestJobStatusTransitions(t *testing.T) {
	allowed := map[JobStatus][]JobStatus{
		JobAccepted:   {JobProcessing},
		JobProcessing: {JobCompleted, JobFailed},
		JobCompleted:  {},
		JobFailed:     {},
	}
	all := []JobStatus{JobAccepted, JobProcessing, JobCompleted, JobFailed}

	for from, nexts := range allowed {
		for _, to := range all {
			want := false
			for _, n := range nexts {
				if n == to {
					want = true
				}
			}
			if got := from.CanTransition(to); got != want {
				t.Errorf("CanTransition(%s -> %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}
