package domain

// Identity is the signed-in user as reported by the identity provider.
type Identity struct {
	Subject     string `json:"subject" firestore:"uid"`
	DisplayName string `json:"displayName" firestore:"displayName"`
	Email       string `json:"email" firestore:"email"`
	PhotoURL    string `json:"photoUrl,omitempty" firestore:"photoURL"`
}
