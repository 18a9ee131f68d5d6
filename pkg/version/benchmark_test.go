package version

import "testing"

func BenchmarkCheck(b *testing.B) {
	inputs := []string{"1", "1.2", "1.2.3", "1.2.3-beta", "v1.2.3", "1..2"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Check(inputs[i%len(inputs)])
	}
}

func BenchmarkIncrease(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Increase("1.2.3-beta", Levels[i%len(Levels)])
	}
}
