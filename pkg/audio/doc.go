// Package audio is an umbrella for audio analysis sub-packages:
//
//   - spectral: windowed FFT spectrograms and mel filterbank machinery
//   - descriptor: the individual spectral and temporal descriptors
//   - feature: fixed-width feature vector extraction over a descriptor set
package audio
