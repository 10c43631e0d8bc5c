package viewmodels

type HomePage struct {
	BaseViewModel

	Uploaded *ImageCard
}
