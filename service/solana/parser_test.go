package solana

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	sender    = solana.MustPublicKeyFromBase58("DAw5ebjQBFruAFb7aehTTdbWixeTS3oS1BUAiZtKAvea")
	recipient = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	blockhash = solana.MustHashFromBase58("EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N")
)

func TestSummarize_SOLTransfer(t *testing.T) {
	tx, err := solana.NewTransaction(
		[]solana.Instruction{system.NewTransferInstruction(1_000_000_000, sender, recipient).Build()},
		blockhash,
		solana.TransactionPayer(sender),
	)
	require.NoError(t, err)

	summary, err := Summarize(tx)
	require.NoError(t, err)

	assert.Equal(t, sender, summary.FeePayer)
	assert.Equal(t, blockhash, summary.RecentBlockhash)
	assert.Equal(t, 1, summary.RequiredSignatures)
	assert.False(t, summary.Signed)
	require.Len(t, summary.Transfers, 1)
	assert.Equal(t, Transfer{From: sender, To: recipient, Lamports: 1_000_000_000}, summary.Transfers[0])
}

func TestSummarize_DetectsSignature(t *testing.T) {
	tx, err := solana.NewTransaction(
		[]solana.Instruction{system.NewTransferInstruction(1, sender, recipient).Build()},
		blockhash,
		solana.TransactionPayer(sender),
	)
	require.NoError(t, err)

	var sig solana.Signature
	sig[0] = 1
	tx.Signatures = []solana.Signature{sig}

	summary, err := Summarize(tx)
	require.NoError(t, err)
	assert.True(t, summary.Signed)
}

func TestSummarize_IgnoresOtherPrograms(t *testing.T) {
	memoProgram := solana.MustPublicKeyFromBase58("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")
	tx := &solana.Transaction{
		Message: solana.Message{
			AccountKeys: []solana.PublicKey{sender, memoProgram},
			Instructions: []solana.CompiledInstruction{
				{ProgramIDIndex: 1, Data: []byte("hello")},
			},
			RecentBlockhash: blockhash,
		},
	}

	summary, err := Summarize(tx)
	require.NoError(t, err)
	assert.Empty(t, summary.Transfers)
}

func TestSummarize_SkipsOtherSystemInstructions(t *testing.T) {
	// CreateAccount: type 0, lamports, space, owner.
	createAccountData := make([]byte, 52)
	binary.LittleEndian.PutUint32(createAccountData[0:4], 0)
	binary.LittleEndian.PutUint64(createAccountData[4:12], 2_039_280)

	transferData := make([]byte, 12)
	binary.LittleEndian.PutUint32(transferData[0:4], SystemProgramTransferInstruction)
	binary.LittleEndian.PutUint64(transferData[4:12], 42)

	tx := &solana.Transaction{
		Message: solana.Message{
			AccountKeys: []solana.PublicKey{sender, recipient, solana.SystemProgramID},
			Instructions: []solana.CompiledInstruction{
				{ProgramIDIndex: 2, Accounts: []uint16{0, 1}, Data: createAccountData},
				{ProgramIDIndex: 2, Accounts: []uint16{0, 1}, Data: transferData},
			},
			RecentBlockhash: blockhash,
		},
	}

	summary, err := Summarize(tx)
	require.NoError(t, err)
	require.Len(t, summary.Transfers, 1)
	assert.Equal(t, sender, summary.Transfers[0].From)
	assert.Equal(t, recipient, summary.Transfers[0].To)
	assert.Equal(t, uint64(42), summary.Transfers[0].Lamports)
}

func TestSummarize_Errors(t *testing.T) {
	transferData := make([]byte, 12)
	binary.LittleEndian.PutUint32(transferData[0:4], SystemProgramTransferInstruction)
	binary.LittleEndian.PutUint64(transferData[4:12], 42)

	tests := []struct {
		name    string
		tx      *solana.Transaction
		wantErr string
	}{
		{
			name:    "nil transaction",
			tx:      nil,
			wantErr: "nil transaction",
		},
		{
			name:    "no account keys",
			tx:      &solana.Transaction{},
			wantErr: "no account keys",
		},
		{
			name: "program index out of bounds",
			tx: &solana.Transaction{Message: solana.Message{
				AccountKeys:  []solana.PublicKey{sender},
				Instructions: []solana.CompiledInstruction{{ProgramIDIndex: 5}},
			}},
			wantErr: "out of bounds",
		},
		{
			name: "short instruction data",
			tx: &solana.Transaction{Message: solana.Message{
				AccountKeys:  []solana.PublicKey{sender, recipient, solana.SystemProgramID},
				Instructions: []solana.CompiledInstruction{{ProgramIDIndex: 2, Accounts: []uint16{0, 1}, Data: []byte{2, 0}}},
			}},
			wantErr: "too short",
		},
		{
			name: "missing accounts",
			tx: &solana.Transaction{Message: solana.Message{
				AccountKeys:  []solana.PublicKey{sender, recipient, solana.SystemProgramID},
				Instructions: []solana.CompiledInstruction{{ProgramIDIndex: 2, Accounts: []uint16{0}, Data: transferData}},
			}},
			wantErr: "want 2",
		},
		{
			name: "account index out of bounds",
			tx: &solana.Transaction{Message: solana.Message{
				AccountKeys:  []solana.PublicKey{sender, recipient, solana.SystemProgramID},
				Instructions: []solana.CompiledInstruction{{ProgramIDIndex: 2, Accounts: []uint16{0, 9}, Data: transferData}},
			}},
			wantErr: "out of bounds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Summarize(tt.tx)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
