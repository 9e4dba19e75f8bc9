package model

// ChangeFunc receives the record after every successful update.
type ChangeFunc func(field Field, data SignatureData)

// Form owns the record being edited. Updates are applied one field at a time
// and every subscriber is called synchronously afterwards, so anything that
// renders from the form observes the new value before UpdateField returns.
//
// A Form is not safe for concurrent use; callers serialise access per session.
type Form struct {
	data        SignatureData
	subscribers []ChangeFunc
}

// NewForm returns a form seeded with the default sample values.
func NewForm() *Form {
	return NewFormFrom(Default())
}

// NewFormFrom returns a form seeded with data.
func NewFormFrom(data SignatureData) *Form {
	return &Form{data: data}
}

// OnChange registers fn to run after each update.
func (f *Form) OnChange(fn ChangeFunc) {
	if fn == nil {
		return
	}
	f.subscribers = append(f.subscribers, fn)
}

// Data returns a copy of the current record.
func (f *Form) Data() SignatureData {
	return f.data
}

// UpdateField replaces field with value. Any string is accepted, including the
// empty string.
func (f *Form) UpdateField(field Field, value string) error {
	if err := f.data.Set(field, value); err != nil {
		return err
	}
	f.notify(field)
	return nil
}

// Reset restores the default sample values.
func (f *Form) Reset() {
	f.data = Default()
	f.notify("")
}

func (f *Form) notify(field Field) {
	snapshot := f.data
	for _, fn := range f.subscribers {
		fn(field, snapshot)
	}
}
