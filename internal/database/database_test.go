package database

import "testing"

func TestMongoDatabaseName(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"mongodb://localhost:27017/journal", "journal"},
		{"mongodb://localhost:27017/journal?retryWrites=true", "journal"},
		{"mongodb://localhost:27017", DefaultMongoDatabase},
		{"mongodb://localhost:27017/", DefaultMongoDatabase},
		{"mongodb+srv://u:p@cluster.example.net/mj?tls=true", "mj"},
	}
	for _, tt := range tests {
		if got := MongoDatabaseName(tt.uri); got != tt.want {
			t.Errorf("MongoDatabaseName(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}
